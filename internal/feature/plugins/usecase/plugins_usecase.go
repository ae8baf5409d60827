// Package usecase はpluginsフィーチャーのビジネスロジックを実装します。
// リストクエリの正規化（クエリエンジン）とライフサイクル操作を担当します。
package usecase

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"findmyplugin_backend/internal/feature/plugins/domain/entity"
)

const (
	// DefaultPage はページ番号のデフォルト値です。
	DefaultPage = 1
	// DefaultLimit は1ページあたりのデフォルト件数です。
	DefaultLimit = 12
	// MaxLimit は1ページあたりの最大件数です。
	MaxLimit = 100
)

// SortKey はリストのソートキーです。
type SortKey string

const (
	SortNewest  SortKey = "newest"
	SortPopular SortKey = "popular"
	SortRating  SortKey = "rating"
)

// ListParams はHTTP層から渡される生のリストパラメータです。
// page/limit/minRatingは元の文字列のまま受け取り、このレイヤーで正規化します。
type ListParams struct {
	Query       string
	Category    string
	Subcategory string
	Tags        string // カンマ区切り
	MinRating   string
	SortBy      string
	Order       string
	Page        string
	Limit       string
}

// ListQuery は永続化層へ渡す正規化済みクエリです。
type ListQuery struct {
	Text        string
	Category    string
	Subcategory string
	Tags        []string // すべて含む（AND）
	MinRating   *float64
	SortBy      SortKey
	Descending  bool
	Offset      int
	Limit       int
}

// PageInfo はリスト結果のページネーション情報です。
type PageInfo struct {
	Page  int
	Limit int
	Total int64
	Pages int
}

// UpdateChanges は部分更新の変更セットです。nilのフィールドは変更しません。
type UpdateChanges struct {
	Title           *string
	Description     *string
	DescriptionHTML *string
	Category        *string
	Subcategory     *string
	Tags            *entity.StringList
	Screenshots     *entity.ScreenshotList
	Video           *string
	AppLink         *string
	Likes           *int
	Hearts          *int
	Oks             *int
	Rating          *float64
	RatingsCount    *int
}

// IsEmpty は変更セットが空かどうかを返します。
func (u UpdateChanges) IsEmpty() bool {
	return u == UpdateChanges{}
}

// PluginRepository はプラグインの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type PluginRepository interface {
	// List はクエリに一致するアクティブなプラグインの1ページと総件数を返します。
	// ページクエリとカウントクエリは並行に発行されます。
	List(ctx context.Context, q ListQuery) ([]entity.Plugin, int64, error)

	// FindByID はアクティブなプラグインをIDで取得します。
	// 存在しないか削除済みの場合、ErrPluginNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.Plugin, error)

	// Create は新しいプラグインを永続化します。
	Create(ctx context.Context, p *entity.Plugin) error

	// Update はアクティブなプラグインを条件付きで部分更新します。
	// 削除済みレコードは復元されるまで不変であり、ErrPluginNotFoundになります。
	Update(ctx context.Context, id uint, changes UpdateChanges) (*entity.Plugin, error)

	// SoftDelete はactive→deletedの条件付きアトミック遷移を行います。
	// 既に削除済みの場合はErrPluginNotFound（タイムスタンプの上書き防止）。
	SoftDelete(ctx context.Context, id uint, at time.Time) error

	// Restore はdeleted→activeの条件付きアトミック遷移を行います。
	// 削除されていない場合はErrPluginNotFoundを返します。
	Restore(ctx context.Context, id uint) (*entity.Plugin, error)

	// CountActive はアクティブなプラグインの総数を返します。
	CountActive(ctx context.Context) (int64, error)
}

// pluginsUsecase はプラグインのクエリエンジンとライフサイクル管理を実装します。
type pluginsUsecase struct {
	plugins PluginRepository
	now     func() time.Time
}

// NewPluginsUsecase はpluginsUsecaseの新しいインスタンスを生成します。
func NewPluginsUsecase(plugins PluginRepository) *pluginsUsecase {
	return &pluginsUsecase{plugins: plugins, now: time.Now}
}

// List はリストパラメータを正規化し、1ページ分の結果とページ情報を返します。
func (u *pluginsUsecase) List(ctx context.Context, p ListParams) ([]entity.Plugin, PageInfo, error) {
	q := buildListQuery(p)

	items, total, err := u.plugins.List(ctx, q)
	if err != nil {
		return nil, PageInfo{}, err
	}

	return items, PageInfo{
		Page:  q.Offset/q.Limit + 1,
		Limit: q.Limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(q.Limit))),
	}, nil
}

// buildListQuery は生パラメータを正規化済みクエリに変換します。
//   - page: 正の整数でなければ1、1未満は1に切り上げ
//   - limit: 整数でなければ12、[1,100]にクランプ
//   - tags: カンマ区切りをトリムし、空要素を除去
//   - minRating: 有限の数値として解釈できない場合は無視
func buildListQuery(p ListParams) ListQuery {
	page := DefaultPage
	if n, err := strconv.Atoi(p.Page); err == nil && n > 0 {
		page = n
	}
	limit := DefaultLimit
	if n, err := strconv.Atoi(p.Limit); err == nil {
		limit = n
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	q := ListQuery{
		Text:        strings.TrimSpace(p.Query),
		Category:    p.Category,
		Subcategory: p.Subcategory,
		SortBy:      SortNewest,
		Descending:  true,
		Offset:      (page - 1) * limit,
		Limit:       limit,
	}

	if p.Tags != "" {
		for _, t := range strings.Split(p.Tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				q.Tags = append(q.Tags, t)
			}
		}
	}

	if p.MinRating != "" {
		// ParseFloatはNaN/Infも受理するため、有限値のみ採用する
		if r, err := strconv.ParseFloat(p.MinRating, 64); err == nil && !math.IsNaN(r) && !math.IsInf(r, 0) {
			q.MinRating = &r
		}
	}

	switch SortKey(p.SortBy) {
	case SortPopular:
		q.SortBy = SortPopular
	case SortRating:
		q.SortBy = SortRating
	}
	if p.Order == "asc" {
		q.Descending = false
	}

	return q
}

// Get はアクティブなプラグインをIDで取得します。
func (u *pluginsUsecase) Get(ctx context.Context, id uint) (*entity.Plugin, error) {
	return u.plugins.FindByID(ctx, id)
}

// Create は新しいプラグインを登録して返します。
func (u *pluginsUsecase) Create(ctx context.Context, p *entity.Plugin) (*entity.Plugin, error) {
	p.Status = entity.StatusActive
	p.DeletedAt = nil
	if p.Tags == nil {
		p.Tags = entity.StringList{}
	}
	if p.Screenshots == nil {
		p.Screenshots = entity.ScreenshotList{}
	}
	if err := u.plugins.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update はアクティブなプラグインを部分更新します。
func (u *pluginsUsecase) Update(ctx context.Context, id uint, changes UpdateChanges) (*entity.Plugin, error) {
	return u.plugins.Update(ctx, id, changes)
}

// SoftDelete はプラグインをソフト削除します。
func (u *pluginsUsecase) SoftDelete(ctx context.Context, id uint) error {
	return u.plugins.SoftDelete(ctx, id, u.now())
}

// Restore はソフト削除済みのプラグインを復元します。
func (u *pluginsUsecase) Restore(ctx context.Context, id uint) (*entity.Plugin, error) {
	return u.plugins.Restore(ctx, id)
}
