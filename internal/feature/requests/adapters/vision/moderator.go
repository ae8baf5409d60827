// Package vision はGoogle Cloud Vision APIを使用した画像モデレーションを提供します。
package vision

import (
	"context"
	"fmt"

	gvision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	"findmyplugin_backend/internal/feature/requests/usecase"
)

// SafeSearchModerator はVision APIのSafeSearch判定で画像の安全性を評価します。
type SafeSearchModerator struct {
	client *gvision.ImageAnnotatorClient
}

// SafeSearchModeratorがImageModeratorを実装していることをコンパイル時に検証します。
var _ usecase.ImageModerator = (*SafeSearchModerator)(nil)

// NewSafeSearchModerator はADCを使用してSafeSearchModeratorの新しいインスタンスを生成します。
func NewSafeSearchModerator(ctx context.Context) (*SafeSearchModerator, error) {
	client, err := gvision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	return &SafeSearchModerator{client: client}, nil
}

// Close はVision APIクライアントを解放します。
func (m *SafeSearchModerator) Close() error {
	return m.client.Close()
}

// IsSafe は画像バイト列をSafeSearchで評価し、成人向け・暴力的コンテンツの
// 可能性が高い場合にfalseを返します。
func (m *SafeSearchModerator) IsSafe(ctx context.Context, imageData []byte) (bool, error) {
	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: imageData},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_SAFE_SEARCH_DETECTION},
				},
			},
		},
	}

	resp, err := m.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return false, fmt.Errorf("vision API request failed: %w", err)
	}

	if len(resp.Responses) == 0 {
		return true, nil
	}
	if resp.Responses[0].Error != nil {
		return false, fmt.Errorf("vision API error: %s", resp.Responses[0].Error.Message)
	}

	annotation := resp.Responses[0].SafeSearchAnnotation
	if annotation == nil {
		return true, nil
	}
	return !flagged(annotation.Adult) && !flagged(annotation.Violence), nil
}

// flagged はLIKELY以上を不適切と判定します。
func flagged(l visionpb.Likelihood) bool {
	return l == visionpb.Likelihood_LIKELY || l == visionpb.Likelihood_VERY_LIKELY
}
