package gcp

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/Dheolarh/SkoolMeBackend/internal/logger"
)

// transcriptChunkSeconds groups word timestamps into two-minute blocks when
// formatting the transcript.
const transcriptChunkSeconds = 120

// waitCeiling bounds how long a single long-running recognize operation may be
// polled before it is treated as a failure for that file.
const waitCeiling = 1000 * time.Second

type Speech interface {
	// TranscribeGCS runs long-running recognition against a gs:// URI of
	// 16 kHz mono LINEAR16 audio and returns a timestamped transcript.
	// onProgress, when non-nil, receives human-readable progress messages
	// while the operation is polled.
	TranscribeGCS(ctx context.Context, gcsURI string, onProgress func(string)) (string, error)
	Close() error
}

type speechService struct {
	log        *logger.Logger
	client     *speech.Client
	maxRetries int
}

func NewSpeech(log *logger.Logger) (Speech, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	slog := log.With("service", "gcp.Speech")

	ctx := context.Background()
	opts := ClientOptionsFromEnv()

	c, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("speech client: %w", err)
	}

	return &speechService{
		log:        slog,
		client:     c,
		maxRetries: 4,
	}, nil
}

func (s *speechService) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *speechService) TranscribeGCS(ctx context.Context, gcsURI string, onProgress func(string)) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, waitCeiling)
	defer cancel()

	if !strings.HasPrefix(gcsURI, "gs://") {
		return "", fmt.Errorf("gcsURI must be gs://... got %q", gcsURI)
	}

	req := &speechpb.LongRunningRecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:            16000,
			LanguageCode:               "en-US",
			EnableWordTimeOffsets:      true,
			EnableAutomaticPunctuation: true,
			Model:                      "latest_long",
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Uri{Uri: gcsURI},
		},
	}

	op, err := s.startWithRetry(ctx, req)
	if err != nil {
		return "", fmt.Errorf("speech longrunningrecognize(gcs): %w", err)
	}

	report := func(msg string) {
		if onProgress != nil {
			onProgress(msg)
		}
	}
	report("Transcribing (0%)")

	// Poll rather than block so callers see forward motion on long jobs.
	progress := 0
	var resp *speechpb.LongRunningRecognizeResponse
	for {
		resp, err = op.Poll(ctx)
		if err != nil {
			return "", fmt.Errorf("speech operation poll: %w", err)
		}
		if op.Done() {
			break
		}
		progress = minInt(progress+5, 95)
		report(fmt.Sprintf("Transcribing (%d%%)", progress))
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("speech operation wait: %w", ctx.Err())
		case <-time.After(5 * time.Second):
		}
	}
	report("Transcribing (100%)")

	return formatTranscript(resp), nil
}

func (s *speechService) startWithRetry(ctx context.Context, req *speechpb.LongRunningRecognizeRequest) (*speech.LongRunningRecognizeOperation, error) {
	backoff := 750 * time.Millisecond
	var last error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		op, err := s.client.LongRunningRecognize(ctx, req)
		if err == nil {
			return op, nil
		}
		last = err

		code := status.Code(err)
		if code != codes.Unavailable && code != codes.ResourceExhausted && code != codes.DeadlineExceeded {
			return nil, err
		}
		if attempt == s.maxRetries {
			break
		}
		time.Sleep(backoff)
		backoff *= 2
		if backoff > 10*time.Second {
			backoff = 10 * time.Second
		}
	}
	return nil, last
}

type timedWord struct {
	startSec float64
	word     string
}

// formatTranscript renders recognition results as two-minute blocks, each
// headed by its timestamp range. Results without word offsets fall into the
// first block unchanged.
func formatTranscript(resp *speechpb.LongRunningRecognizeResponse) string {
	if resp == nil || len(resp.Results) == 0 {
		return ""
	}

	chunks := map[int][]timedWord{}
	for _, r := range resp.Results {
		if r == nil || len(r.Alternatives) == 0 || r.Alternatives[0] == nil {
			continue
		}
		alt := r.Alternatives[0]
		if len(alt.Words) > 0 {
			for _, w := range alt.Words {
				if w == nil {
					continue
				}
				start := durToSec(w.StartTime)
				idx := int(start) / transcriptChunkSeconds
				chunks[idx] = append(chunks[idx], timedWord{startSec: start, word: w.Word})
			}
			continue
		}
		if strings.TrimSpace(alt.Transcript) != "" {
			chunks[0] = append(chunks[0], timedWord{word: alt.Transcript})
		}
	}

	indices := make([]int, 0, len(chunks))
	for idx := range chunks {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	var full strings.Builder
	for _, idx := range indices {
		start := formatChunkTime(idx * transcriptChunkSeconds)
		end := formatChunkTime((idx + 1) * transcriptChunkSeconds)
		full.WriteString(fmt.Sprintf("\n\nTimestamp: %s - %s\n", start, end))

		words := make([]string, 0, len(chunks[idx]))
		for _, w := range chunks[idx] {
			words = append(words, w.word)
		}
		full.WriteString(strings.Join(words, " "))
	}
	return strings.TrimSpace(full.String())
}

// formatChunkTime renders whole seconds as H:MM, hours unpadded.
func formatChunkTime(totalSeconds int) string {
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	return fmt.Sprintf("%d:%02d", hours, minutes)
}

func durToSec(d *durationpb.Duration) float64 {
	if d == nil {
		return 0
	}
	return float64(d.Seconds) + float64(d.Nanos)/1e9
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
