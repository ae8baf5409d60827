// Package dto はpluginsフィーチャーのHTTPリクエスト/レスポンス型を定義します。
package dto

import (
	"time"

	"findmyplugin_backend/internal/feature/plugins/domain/entity"
	"findmyplugin_backend/internal/feature/plugins/usecase"
)

// ListQuery はGET /api/pluginsのクエリパラメータです。
// page/limit/minRatingは元実装と同じく文字列のまま受け取り、usecase側で正規化します。
type ListQuery struct {
	Q           string `form:"q"`
	Category    string `form:"category"`
	Subcategory string `form:"subcategory"`
	Tags        string `form:"tags"` // カンマ区切り
	MinRating   string `form:"minRating"`
	SortBy      string `form:"sortBy" binding:"omitempty,oneof=newest popular rating"`
	Order       string `form:"order" binding:"omitempty,oneof=asc desc"`
	Page        string `form:"page"`
	Limit       string `form:"limit"`
}

// ToParams はバインド済みクエリをusecaseのパラメータに変換します。
func (q ListQuery) ToParams() usecase.ListParams {
	return usecase.ListParams{
		Query:       q.Q,
		Category:    q.Category,
		Subcategory: q.Subcategory,
		Tags:        q.Tags,
		MinRating:   q.MinRating,
		SortBy:      q.SortBy,
		Order:       q.Order,
		Page:        q.Page,
		Limit:       q.Limit,
	}
}

// ScreenshotPayload はスクリーンショット1件の入力です。
type ScreenshotPayload struct {
	URL string `json:"url" binding:"required,url"`
}

// CreatePluginRequest はPOST /api/pluginsのボディです。
type CreatePluginRequest struct {
	Title        string              `json:"title" binding:"required,min=2"`
	Desc         string              `json:"desc" binding:"required,min=5"`
	DescText     string              `json:"descText"`
	Category     string              `json:"category" binding:"required,min=2"`
	Subcategory  string              `json:"subcategory"`
	Tags         []string            `json:"tags"`
	Screenshots  []ScreenshotPayload `json:"screenshots" binding:"omitempty,dive"`
	Video        string              `json:"video" binding:"omitempty,url"`
	AppLink      string              `json:"appLink" binding:"omitempty,url"`
	Likes        int                 `json:"likes" binding:"gte=0"`
	Hearts       int                 `json:"hearts" binding:"gte=0"`
	Oks          int                 `json:"oks" binding:"gte=0"`
	Rating       float64             `json:"rating" binding:"gte=0,lte=5"`
	RatingsCount int                 `json:"ratingsCount" binding:"gte=0"`
}

// ToEntity はリクエストをエンティティに変換します（オプション項目はデフォルト適用済み）。
func (r CreatePluginRequest) ToEntity() *entity.Plugin {
	p := &entity.Plugin{
		Title:           r.Title,
		Description:     r.Desc,
		DescriptionHTML: r.DescText,
		Category:        r.Category,
		Subcategory:     r.Subcategory,
		Tags:            entity.StringList(r.Tags),
		Video:           r.Video,
		AppLink:         r.AppLink,
		Likes:           r.Likes,
		Hearts:          r.Hearts,
		Oks:             r.Oks,
		Rating:          r.Rating,
		RatingsCount:    r.RatingsCount,
	}
	for _, s := range r.Screenshots {
		p.Screenshots = append(p.Screenshots, entity.Screenshot{URL: s.URL})
	}
	return p
}

// UpdatePluginRequest はPATCH /api/plugins/:idのボディです。
// すべて任意項目で、指定されたフィールドのみ個別に検証・更新します。
type UpdatePluginRequest struct {
	Title        *string              `json:"title" binding:"omitempty,min=2"`
	Desc         *string              `json:"desc" binding:"omitempty,min=5"`
	DescText     *string              `json:"descText"`
	Category     *string              `json:"category" binding:"omitempty,min=2"`
	Subcategory  *string              `json:"subcategory"`
	Tags         *[]string            `json:"tags"`
	Screenshots  *[]ScreenshotPayload `json:"screenshots" binding:"omitempty,dive"`
	Video        *string              `json:"video" binding:"omitempty,url"`
	AppLink      *string              `json:"appLink" binding:"omitempty,url"`
	Likes        *int                 `json:"likes" binding:"omitempty,gte=0"`
	Hearts       *int                 `json:"hearts" binding:"omitempty,gte=0"`
	Oks          *int                 `json:"oks" binding:"omitempty,gte=0"`
	Rating       *float64             `json:"rating" binding:"omitempty,gte=0,lte=5"`
	RatingsCount *int                 `json:"ratingsCount" binding:"omitempty,gte=0"`
}

// ToChanges はリクエストをusecaseの変更セットに変換します。
func (r UpdatePluginRequest) ToChanges() usecase.UpdateChanges {
	c := usecase.UpdateChanges{
		Title:           r.Title,
		Description:     r.Desc,
		DescriptionHTML: r.DescText,
		Category:        r.Category,
		Subcategory:     r.Subcategory,
		Video:           r.Video,
		AppLink:         r.AppLink,
		Likes:           r.Likes,
		Hearts:          r.Hearts,
		Oks:             r.Oks,
		Rating:          r.Rating,
		RatingsCount:    r.RatingsCount,
	}
	if r.Tags != nil {
		tags := entity.StringList(*r.Tags)
		c.Tags = &tags
	}
	if r.Screenshots != nil {
		shots := make(entity.ScreenshotList, 0, len(*r.Screenshots))
		for _, s := range *r.Screenshots {
			shots = append(shots, entity.Screenshot{URL: s.URL})
		}
		c.Screenshots = &shots
	}
	return c
}

// PluginResponse はプラグイン1件のレスポンス表現です。
type PluginResponse struct {
	ID           uint                `json:"id"`
	Title        string              `json:"title"`
	Desc         string              `json:"desc"`
	DescText     string              `json:"descText,omitempty"`
	Category     string              `json:"category"`
	Subcategory  string              `json:"subcategory"`
	Tags         []string            `json:"tags"`
	Screenshots  []entity.Screenshot `json:"screenshots"`
	Video        string              `json:"video,omitempty"`
	AppLink      string              `json:"appLink,omitempty"`
	Likes        int                 `json:"likes"`
	Hearts       int                 `json:"hearts"`
	Oks          int                 `json:"oks"`
	Rating       float64             `json:"rating"`
	RatingsCount int                 `json:"ratingsCount"`
	IsDeleted    bool                `json:"isDeleted"`
	DeletedAt    *time.Time          `json:"deletedAt,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// FromEntity はエンティティをレスポンス表現に変換します。
func FromEntity(p *entity.Plugin) PluginResponse {
	tags := []string(p.Tags)
	if tags == nil {
		tags = []string{}
	}
	shots := []entity.Screenshot(p.Screenshots)
	if shots == nil {
		shots = []entity.Screenshot{}
	}
	return PluginResponse{
		ID:           p.ID,
		Title:        p.Title,
		Desc:         p.Description,
		DescText:     p.DescriptionHTML,
		Category:     p.Category,
		Subcategory:  p.Subcategory,
		Tags:         tags,
		Screenshots:  shots,
		Video:        p.Video,
		AppLink:      p.AppLink,
		Likes:        p.Likes,
		Hearts:       p.Hearts,
		Oks:          p.Oks,
		Rating:       p.Rating,
		RatingsCount: p.RatingsCount,
		IsDeleted:    p.IsDeleted(),
		DeletedAt:    p.DeletedAt,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// FromEntities はエンティティのスライスをレスポンス表現に変換します。
func FromEntities(ps []entity.Plugin) []PluginResponse {
	out := make([]PluginResponse, 0, len(ps))
	for i := range ps {
		out = append(out, FromEntity(&ps[i]))
	}
	return out
}
