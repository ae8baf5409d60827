// Package adapters はpluginsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"findmyplugin_backend/internal/feature/plugins/domain/entity"
	"findmyplugin_backend/internal/feature/plugins/usecase"
)

// pluginPostgres はPluginRepositoryインターフェースのPostgreSQL実装です。
type pluginPostgres struct {
	db *gorm.DB
}

// pluginPostgresがPluginRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.PluginRepository = (*pluginPostgres)(nil)

// NewPluginRepository は指定されたgorm.DB接続でpluginPostgresの新しいインスタンスを生成します。
func NewPluginRepository(db *gorm.DB) *pluginPostgres {
	return &pluginPostgres{db: db}
}

// List はフィルタに一致するアクティブなプラグインの1ページと総件数を返します。
// ページクエリとカウントクエリはerrgroupで並行に発行します。
// 2つのクエリはトランザクションを共有しないため、並行書き込み下では
// 件数とページ内容が僅かに異なるスナップショットを反映することがあります。
func (r *pluginPostgres) List(ctx context.Context, q usecase.ListQuery) ([]entity.Plugin, int64, error) {
	// goroutineごとに独立したクエリを組み立てる（*gorm.DBの共有を避ける）
	build := func() *gorm.DB {
		return applyFilter(r.db.WithContext(ctx).Model(&entity.Plugin{}), q)
	}

	var (
		items []entity.Plugin
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return build().WithContext(gctx).
			Order(orderClause(q)).
			Offset(q.Offset).
			Limit(q.Limit).
			Find(&items).Error
	})
	g.Go(func() error {
		return build().WithContext(gctx).Count(&total).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// applyFilter はListQueryをWHERE句に変換します。常にstatus=activeを適用します。
func applyFilter(tx *gorm.DB, q usecase.ListQuery) *gorm.DB {
	tx = tx.Where("status = ?", entity.StatusActive)

	if q.Text != "" {
		// タイトル・説明・タグの大文字小文字を区別しない部分一致
		like := "%" + strings.ToLower(q.Text) + "%"
		tx = tx.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(tags) LIKE ?)",
			like, like, like)
	}
	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}
	if q.Subcategory != "" {
		tx = tx.Where("subcategory = ?", q.Subcategory)
	}
	// タグはAND条件：要求されたすべてのタグを含むこと。
	// タグ列はJSONエンコード済みのため、引用符付きトークンで厳密一致になる。
	// トークン内の%や_がワイルドカード扱いされないようESCAPE指定で検索する。
	for _, tag := range q.Tags {
		tx = tx.Where(`tags LIKE ? ESCAPE '\'`, "%"+escapeLike(jsonToken(tag))+"%")
	}
	if q.MinRating != nil {
		tx = tx.Where("rating >= ?", *q.MinRating)
	}

	return tx
}

// jsonToken はJSON配列カラム内の完全一致検索用トークンを生成します。
func jsonToken(tag string) string {
	b := strings.ReplaceAll(tag, `\`, `\\`)
	b = strings.ReplaceAll(b, `"`, `\"`)
	return `"` + b + `"`
}

// escapeLike はLIKEメタ文字をエスケープし、パターン全体をリテラル一致にします。
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// orderClause はソートキーを複合ORDER BY句に変換します。
// キーはホワイトリストの列名のみで構成され、ユーザー入力は直接含まれません。
func orderClause(q usecase.ListQuery) string {
	dir := "DESC"
	if !q.Descending {
		dir = "ASC"
	}
	switch q.SortBy {
	case usecase.SortPopular:
		return "likes " + dir + ", hearts " + dir + ", oks " + dir
	case usecase.SortRating:
		return "rating " + dir + ", ratings_count " + dir
	default:
		return "created_at " + dir
	}
}

// FindByID はアクティブなプラグインをIDで取得します。
func (r *pluginPostgres) FindByID(ctx context.Context, id uint) (*entity.Plugin, error) {
	var p entity.Plugin
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, entity.StatusActive).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrPluginNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Create はプラグインをデータベースに追加します。
func (r *pluginPostgres) Create(ctx context.Context, p *entity.Plugin) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// Update はアクティブなプラグインを条件付きで部分更新します。
// WHERE句のstatus条件により、削除済みレコードへの更新はアトミックに失敗します。
func (r *pluginPostgres) Update(ctx context.Context, id uint, changes usecase.UpdateChanges) (*entity.Plugin, error) {
	cols := changedColumns(changes)
	if len(cols) == 0 {
		// 空のペイロードは現状を返すだけ
		return r.FindByID(ctx, id)
	}

	res := r.db.WithContext(ctx).
		Model(&entity.Plugin{}).
		Where("id = ? AND status = ?", id, entity.StatusActive).
		Updates(cols)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, usecase.ErrPluginNotFound
	}

	return r.FindByID(ctx, id)
}

// changedColumns はnilでないフィールドのみを列名→値のマップに変換します。
func changedColumns(c usecase.UpdateChanges) map[string]any {
	cols := map[string]any{}
	if c.Title != nil {
		cols["title"] = *c.Title
	}
	if c.Description != nil {
		cols["description"] = *c.Description
	}
	if c.DescriptionHTML != nil {
		cols["description_html"] = *c.DescriptionHTML
	}
	if c.Category != nil {
		cols["category"] = *c.Category
	}
	if c.Subcategory != nil {
		cols["subcategory"] = *c.Subcategory
	}
	if c.Tags != nil {
		cols["tags"] = *c.Tags
	}
	if c.Screenshots != nil {
		cols["screenshots"] = *c.Screenshots
	}
	if c.Video != nil {
		cols["video"] = *c.Video
	}
	if c.AppLink != nil {
		cols["app_link"] = *c.AppLink
	}
	if c.Likes != nil {
		cols["likes"] = *c.Likes
	}
	if c.Hearts != nil {
		cols["hearts"] = *c.Hearts
	}
	if c.Oks != nil {
		cols["oks"] = *c.Oks
	}
	if c.Rating != nil {
		cols["rating"] = *c.Rating
	}
	if c.RatingsCount != nil {
		cols["ratings_count"] = *c.RatingsCount
	}
	return cols
}

// SoftDelete はactive→deletedの条件付きアトミック遷移を行います。
// 条件付きUPDATE一発のため、並行する重複リクエストに対しても
// DeletedAtが上書きされることはありません。
func (r *pluginPostgres) SoftDelete(ctx context.Context, id uint, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Plugin{}).
		Where("id = ? AND status = ?", id, entity.StatusActive).
		Updates(map[string]any{
			"status":     entity.StatusDeleted,
			"deleted_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrPluginNotFound
	}
	return nil
}

// Restore はdeleted→activeの条件付きアトミック遷移を行い、復元後のレコードを返します。
func (r *pluginPostgres) Restore(ctx context.Context, id uint) (*entity.Plugin, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.Plugin{}).
		Where("id = ? AND status = ?", id, entity.StatusDeleted).
		Updates(map[string]any{
			"status":     entity.StatusActive,
			"deleted_at": nil,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, usecase.ErrPluginNotFound
	}

	return r.FindByID(ctx, id)
}

// CountActive はアクティブなプラグインの総数を返します。
func (r *pluginPostgres) CountActive(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&entity.Plugin{}).
		Where("status = ?", entity.StatusActive).
		Count(&total).Error
	return total, err
}
