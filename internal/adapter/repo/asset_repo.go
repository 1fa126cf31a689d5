package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"poster-server/internal/domain"
	"poster-server/internal/infra"
	"poster-server/internal/sqlinline"
)

// AssetRepositoryPG implements domain.AssetRepository using PostgreSQL.
type AssetRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewAssetRepository constructs a new asset repository instance.
func NewAssetRepository(sql infra.SQLExecutor) *AssetRepositoryPG {
	return &AssetRepositoryPG{sql: sql}
}

// Save inserts the asset, assigning an ID when it has none.
func (r *AssetRepositoryPG) Save(ctx context.Context, a *domain.PosterAsset) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertPosterAsset,
		a.ID,
		a.UserID,
		a.JobID,
		a.VariantIndex,
		a.RecipeID,
		a.Name,
		a.StorageKey,
		a.MimeType,
		a.Bytes,
		a.Width,
		a.Height,
		string(a.Format),
		string(a.Language),
		a.Model,
	)
	return row.Scan(&a.CreatedAt)
}

// ListByJob returns the assets of one job in variant order.
func (r *AssetRepositoryPG) ListByJob(ctx context.Context, jobID, userID string) ([]domain.PosterAsset, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QSelectJobAssets, jobID, userID)
	if err != nil {
		return nil, err
	}
	return collectAssets(rows)
}

// ListByUser pages through a user's assets, newest first.
func (r *AssetRepositoryPG) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.PosterAsset, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListAssetsByUser, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectAssets(rows)
}

// GetByID fetches a single asset.
func (r *AssetRepositoryPG) GetByID(ctx context.Context, assetID string) (*domain.PosterAsset, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectAssetByID, assetID)
	asset, err := scanAsset(row)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return asset, nil
}

func collectAssets(rows pgx.Rows) ([]domain.PosterAsset, error) {
	defer rows.Close()

	assets := []domain.PosterAsset{}
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, *asset)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assets, nil
}

func scanAsset(row pgx.Row) (*domain.PosterAsset, error) {
	var a domain.PosterAsset
	if err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.JobID,
		&a.VariantIndex,
		&a.RecipeID,
		&a.Name,
		&a.StorageKey,
		&a.MimeType,
		&a.Bytes,
		&a.Width,
		&a.Height,
		&a.Format,
		&a.Language,
		&a.Model,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

var _ domain.AssetRepository = (*AssetRepositoryPG)(nil)
