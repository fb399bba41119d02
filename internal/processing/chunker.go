package processing

import (
	"regexp"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

func init() {
	// Offline loader so chunking never reaches out for BPE files.
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

const (
	// ChunkSize is the token budget per chunk.
	ChunkSize = 300
	// ChunkOverlap is the token overlap between adjacent chunks split from
	// the same long paragraph.
	ChunkOverlap = 50
)

var (
	encoding     *tiktoken.Tiktoken
	encodingOnce sync.Once
	encodingErr  error
)

// cl100k_base matches the GPT-3.5/4 family the generation side uses.
func getEncoding() (*tiktoken.Tiktoken, error) {
	encodingOnce.Do(func() {
		encoding, encodingErr = tiktoken.GetEncoding("cl100k_base")
	})
	return encoding, encodingErr
}

var paragraphSplit = regexp.MustCompile(`\n{2,}`)

// ChunkText splits text into token-bounded chunks. Paragraphs are the natural
// unit: consecutive paragraphs are packed into a chunk until the token budget
// is hit, and a single paragraph over the budget is split into overlapping
// token windows.
func ChunkText(text string) ([]string, error) {
	enc, err := getEncoding()
	if err != nil {
		return nil, err
	}

	var chunks []string
	var current []string
	currentTokens := 0

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, "\n\n"))
			current = current[:0]
			currentTokens = 0
		}
	}

	for _, p := range paragraphSplit.Split(text, -1) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n := len(enc.Encode(p, nil, nil))
		if n > ChunkSize {
			flush()
			chunks = append(chunks, splitByTokens(enc, p, ChunkSize, ChunkOverlap)...)
			continue
		}
		if currentTokens+n > ChunkSize {
			flush()
		}
		current = append(current, p)
		currentTokens += n
	}
	flush()

	return chunks, nil
}

// splitByTokens windows an over-budget paragraph into max-token slices with
// overlap tokens carried between adjacent slices.
func splitByTokens(enc *tiktoken.Tiktoken, s string, max, overlap int) []string {
	tokens := enc.Encode(s, nil, nil)
	var out []string
	for start := 0; start < len(tokens); start += max - overlap {
		end := start + max
		if end > len(tokens) {
			end = len(tokens)
		}
		piece := strings.TrimSpace(enc.Decode(tokens[start:end]))
		if piece != "" {
			out = append(out, piece)
		}
		if end == len(tokens) {
			break
		}
	}
	return out
}
