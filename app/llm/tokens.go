package llm

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

var encoder *tiktoken.Tiktoken

func init() {
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	var err error
	encoder, err = tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		panic(fmt.Sprintf("error loading encoding: %v", err))
	}
}

func CountTokens(s string) int {
	return len(encoder.Encode(s, nil, nil))
}

// TruncateTokens bounds the size of text embedded in a prompt so that a long
// page body never pushes the instruction part of the prompt out of the model's
// context window.
func TruncateTokens(s string, maxTokens int) string {
	tokens := encoder.Encode(s, nil, nil)
	if len(tokens) <= maxTokens {
		return s
	}
	return encoder.Decode(tokens[:maxTokens])
}
