// Package usecase はsuggestフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	// MaxSuggestedTags は1回の提案で返すタグの上限数です。
	MaxSuggestedTags = 8
	// tagPromptTemplate はタグ提案のプロンプトテンプレートです。
	tagPromptTemplate = "Suggest up to %d short, lowercase, comma-separated tags for a plugin directory listing.\nReply with the tags only, no explanations.\nTitle: %s\nDescription: %s"
)

// ErrAnalyzerUnavailable はタグ提案クライアントが未設定の場合に返されます。
var ErrAnalyzerUnavailable = errors.New("tag analyzer is not configured")

// TagAnalyzer はプロンプトからテキストを生成するインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type TagAnalyzer interface {
	// Analyze はプロンプトから生成結果のテキストを返します。
	Analyze(ctx context.Context, prompt string) (string, error)
}

// suggestUsecase はタグ提案のビジネスロジックを提供します。
// analyzerがnilの場合、SuggestTagsはErrAnalyzerUnavailableを返します。
type suggestUsecase struct {
	analyzer TagAnalyzer
}

// NewSuggestUsecase はsuggestUsecaseの新しいインスタンスを生成します。
func NewSuggestUsecase(analyzer TagAnalyzer) *suggestUsecase {
	return &suggestUsecase{analyzer: analyzer}
}

// SuggestTags はタイトルと説明文からタグ候補を生成します。
// 結果は小文字化・重複除去され、最大MaxSuggestedTags件に制限されます。
func (u *suggestUsecase) SuggestTags(ctx context.Context, title, description string) ([]string, error) {
	if u.analyzer == nil {
		return nil, ErrAnalyzerUnavailable
	}

	prompt := fmt.Sprintf(tagPromptTemplate, MaxSuggestedTags, strings.TrimSpace(title), strings.TrimSpace(description))
	raw, err := u.analyzer.Analyze(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("tag suggestion failed: %w", err)
	}

	return parseTags(raw), nil
}

// parseTags は生成結果をカンマ・改行で分割し、正規化したタグを返します。
func parseTags(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n'
	})

	seen := make(map[string]struct{}, len(fields))
	tags := make([]string, 0, MaxSuggestedTags)
	for _, f := range fields {
		tag := strings.ToLower(strings.Trim(strings.TrimSpace(f), "#*`\"'."))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
		if len(tags) == MaxSuggestedTags {
			break
		}
	}
	return tags
}
