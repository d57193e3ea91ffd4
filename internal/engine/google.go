package engine

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
	"unicode/utf8"

	"ttsd/pkg/types"
)

const (
	googleTTSURL = "https://translate.google.com/translate_tts"

	// The endpoint rejects longer inputs.
	googleMaxChars = 100
)

// Google fetches mp3 audio from the Google Translate text-to-speech
// endpoint. The artifact is downloaded next to dest and renamed into place
// so a partial response never shows up as a cache hit.
type Google struct {
	client  *http.Client
	baseURL string
}

func NewGoogle(cfg Config) (Engine, error) {
	return &Google{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: googleTTSURL,
	}, nil
}

func (g *Google) Name() string { return "Google Translate" }

func (g *Google) Traits() []types.Trait { return []types.Trait{types.TraitInternet} }

func (g *Google) Desc() string {
	return fmt.Sprintf("Google Translate text-to-speech web API (%d character limit)", googleMaxChars)
}

func (g *Google) Options() []types.Option {
	return []types.Option{
		{
			Key:   "voice",
			Label: "Voice",
			Choices: []types.Choice{
				{Value: "de", Label: "German"},
				{Value: "en", Label: "English"},
				{Value: "es", Label: "Spanish"},
				{Value: "fr", Label: "French"},
				{Value: "it", Label: "Italian"},
				{Value: "ja", Label: "Japanese"},
				{Value: "ko", Label: "Korean"},
				{Value: "pt", Label: "Portuguese"},
				{Value: "ru", Label: "Russian"},
				{Value: "zh", Label: "Chinese"},
			},
			Transform: AsLower,
		},
	}
}

func (g *Google) Run(text string, options map[string]any, dest string) error {
	if n := utf8.RuneCountInString(text); n > googleMaxChars {
		return fmt.Errorf("input is %d characters; Google Translate is limited to %d", n, googleMaxChars)
	}

	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", fmt.Sprint(options["voice"]))
	q.Set("q", text)

	req, err := http.NewRequest(http.MethodGet, g.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("google tts: unexpected status %s", resp.Status)
	}

	tmp := dest + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dest)
}
