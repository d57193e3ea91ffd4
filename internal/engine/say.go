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

// Say drives the macOS `say` binary, transcoding its aiff output to mp3.
type Say struct {
	sayBin    string
	lameBin   string
	tempDir   string
	lameFlags string
}

func NewSay(cfg Config) (Engine, error) {
	sayBin, err := exec.LookPath("say")
	if err != nil {
		return nil, fmt.Errorf("say binary not found: %w", err)
	}
	lameBin, err := exec.LookPath("lame")
	if err != nil {
		return nil, fmt.Errorf("lame binary not found: %w", err)
	}
	return &Say{
		sayBin:    sayBin,
		lameBin:   lameBin,
		tempDir:   cfg.TempDir,
		lameFlags: cfg.LameFlags,
	}, nil
}

func (s *Say) Name() string { return "Say" }

func (s *Say) Traits() []types.Trait { return []types.Trait{types.TraitTranscoding} }

func (s *Say) Desc() string {
	return "macOS speech synthesis via the say command (transcoded to mp3 via lame)"
}

func (s *Say) Options() []types.Option {
	return []types.Option{
		{
			Key:   "voice",
			Label: "Voice",
			// Voice names are case-sensitive on the say command line.
			Choices: []types.Choice{
				{Value: "Alex", Label: "Alex (English, American)"},
				{Value: "Daniel", Label: "Daniel (English, British)"},
				{Value: "Fiona", Label: "Fiona (English, Scottish)"},
				{Value: "Karen", Label: "Karen (English, Australian)"},
				{Value: "Samantha", Label: "Samantha (English, American)"},
			},
			Default:   "Alex",
			Transform: AsString,
		},
		{Key: "speed", Label: "Speed", Range: &types.Range{Min: 10, Max: 500}, Default: 175, Transform: AsInt},
	}
}

func (s *Say) Run(text string, options map[string]any, dest string) error {
	aiff := filepath.Join(s.tempDir, uuid.NewString()+".aiff")
	defer os.Remove(aiff)

	cmd := exec.Command(s.sayBin,
		"-v", fmt.Sprint(options["voice"]),
		"-r", fmt.Sprint(options["speed"]),
		"-o", aiff,
		text,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("say: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return transcode(s.lameBin, s.lameFlags, aiff, dest)
}
