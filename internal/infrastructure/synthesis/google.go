// Package synthesis implements the speech engine client. It talks to
// the public Google Translate TTS endpoint, the same backend the
// original gTTS tooling uses.
package synthesis

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	endpoint = "https://translate.google.com/translate_tts"
	// The endpoint caps each request at roughly 200 characters; longer
	// texts are split on whitespace and the MP3 payloads concatenated.
	maxChunkRunes  = 200
	defaultTimeout = 30 * time.Second
	userAgent      = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"
)

// Client fetches synthesized speech over HTTP. One attempt per chunk;
// any failure aborts the whole synthesis.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

func (c *Client) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	// Callers validate input, but an empty or whitespace-only text must
	// never reach the endpoint as a zero-chunk no-op.
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("tts request: empty text")
	}

	var audio []byte
	for _, chunk := range splitChunks(text, maxChunkRunes) {
		part, err := c.fetchChunk(ctx, chunk, language)
		if err != nil {
			return nil, err
		}
		audio = append(audio, part...)
	}
	return audio, nil
}

func (c *Client) fetchChunk(ctx context.Context, text, language string) ([]byte, error) {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", language)
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tts request: unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// splitChunks breaks text into pieces of at most limit runes, cutting
// on whitespace where possible so words are not split mid-syllable.
func splitChunks(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0

	for _, word := range strings.Fields(text) {
		wordLen := utf8.RuneCountInString(word)
		if currentLen > 0 && currentLen+1+wordLen > limit {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
		// A single word longer than the limit is hard-cut.
		for wordLen > limit {
			runes := []rune(word)
			chunks = append(chunks, string(runes[:limit]))
			word = string(runes[limit:])
			wordLen = utf8.RuneCountInString(word)
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(word)
		currentLen += wordLen
	}
	if currentLen > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
