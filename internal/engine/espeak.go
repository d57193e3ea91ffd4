package engine

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"ttsd/pkg/types"
)

// ESpeak synthesizes speech with the espeak binary and transcodes the
// intermediate wav to mp3 via lame. Construction fails when either binary
// is missing from PATH.
type ESpeak struct {
	espeakBin string
	lameBin   string
	tempDir   string
	lameFlags string
}

func NewESpeak(cfg Config) (Engine, error) {
	espeakBin, err := exec.LookPath("espeak")
	if err != nil {
		return nil, fmt.Errorf("espeak binary not found: %w", err)
	}
	lameBin, err := exec.LookPath("lame")
	if err != nil {
		return nil, fmt.Errorf("lame binary not found: %w", err)
	}
	return &ESpeak{
		espeakBin: espeakBin,
		lameBin:   lameBin,
		tempDir:   cfg.TempDir,
		lameFlags: cfg.LameFlags,
	}, nil
}

func (e *ESpeak) Name() string { return "eSpeak" }

func (e *ESpeak) Traits() []types.Trait { return []types.Trait{types.TraitTranscoding} }

func (e *ESpeak) Desc() string {
	return "eSpeak speech synthesizer (local, transcoded to mp3 via lame)"
}

func (e *ESpeak) Options() []types.Option {
	return []types.Option{
		{
			Key:   "voice",
			Label: "Voice",
			Choices: []types.Choice{
				{Value: "en", Label: "English"},
				{Value: "en-us", Label: "English (American)"},
				{Value: "de", Label: "German"},
				{Value: "es", Label: "Spanish"},
				{Value: "fr", Label: "French"},
				{Value: "it", Label: "Italian"},
			},
			Transform: AsLower,
		},
		{Key: "speed", Label: "Speed", Range: &types.Range{Min: 80, Max: 450}, Default: 175, Transform: AsInt},
		{Key: "pitch", Label: "Pitch", Range: &types.Range{Min: 0, Max: 99}, Default: 50, Transform: AsInt},
		{Key: "amplitude", Label: "Amplitude", Range: &types.Range{Min: 0, Max: 200}, Default: 100, Transform: AsInt},
	}
}

func (e *ESpeak) Run(text string, options map[string]any, dest string) error {
	wav := filepath.Join(e.tempDir, uuid.NewString()+".wav")
	defer os.Remove(wav)

	cmd := exec.Command(e.espeakBin,
		"-v", fmt.Sprint(options["voice"]),
		"-s", fmt.Sprint(options["speed"]),
		"-p", fmt.Sprint(options["pitch"]),
		"-a", fmt.Sprint(options["amplitude"]),
		"-w", wav,
		text,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("espeak: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return transcode(e.lameBin, e.lameFlags, wav, dest)
}
