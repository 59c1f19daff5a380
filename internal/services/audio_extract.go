package services

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/Dheolarh/SkoolMeBackend/internal/clients/gcp"
	"github.com/Dheolarh/SkoolMeBackend/internal/logger"
)

// AudioExtractService turns an uploaded audio file into a timestamped
// transcript: normalize with ffmpeg to 16 kHz mono WAV, stage the WAV in GCS,
// run long-running recognition, then clean up both the temp WAV and the staged
// object.
type AudioExtractService interface {
	ExtractFile(ctx context.Context, path string, onProgress func(string)) (string, error)
}

type audioExtractService struct {
	log            *logger.Logger
	bucket         gcp.Bucket
	speech         gcp.Speech
	ffmpegPath     string
	convertTimeout time.Duration
}

func NewAudioExtractService(log *logger.Logger, bucket gcp.Bucket, speech gcp.Speech) AudioExtractService {
	return &audioExtractService{
		log:            log.With("service", "AudioExtractService"),
		bucket:         bucket,
		speech:         speech,
		ffmpegPath:     "ffmpeg",
		convertTimeout: 10 * time.Minute,
	}
}

func (s *audioExtractService) ExtractFile(ctx context.Context, path string, onProgress func(string)) (string, error) {
	report := func(msg string) {
		if onProgress != nil {
			onProgress(msg)
		}
		s.log.Info(msg, "path", path)
	}

	report("Starting audio processing...")

	report("Converting audio to WAV format...")
	wavPath, err := s.convertToWAV(ctx, path)
	if err != nil {
		return "", fmt.Errorf("audio conversion failed: %w", err)
	}
	defer func() {
		if err := os.Remove(wavPath); err != nil && !os.IsNotExist(err) {
			s.log.Warn("Failed to cleanup temporary file", "path", wavPath, "error", err)
		}
	}()

	report("Uploading to Google Cloud Storage...")
	f, err := os.Open(wavPath)
	if err != nil {
		return "", fmt.Errorf("open wav: %w", err)
	}
	key := fmt.Sprintf("audio_%d_%s", time.Now().Unix(), filepath.Base(wavPath))
	gcsURI, err := s.bucket.Upload(ctx, key, f)
	_ = f.Close()
	if err != nil {
		return "", fmt.Errorf("gcs upload failed: %w", err)
	}
	defer func() {
		if err := s.bucket.Delete(context.Background(), key); err != nil {
			s.log.Warn("Failed to delete staged audio object", "key", key, "error", err)
		}
	}()

	report("Transcribing audio...")
	transcript, err := s.speech.TranscribeGCS(ctx, gcsURI, onProgress)
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	report("Audio processing completed!")
	return transcript, nil
}

// convertToWAV writes <name>_converted.wav next to the input, 16 kHz mono.
func (s *audioExtractService) convertToWAV(ctx context.Context, audioPath string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.convertTimeout)
	defer cancel()

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	wavPath := filepath.Join(filepath.Dir(audioPath), base+"_converted.wav")

	cmd := exec.CommandContext(ctx, s.ffmpegPath,
		"-y",
		"-i", audioPath,
		"-ar", "16000",
		"-ac", "1",
		"-f", "wav",
		wavPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("ffmpeg: %w: %s", err, tailLines(string(out), 5))
	}
	return wavPath, nil
}

func tailLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
