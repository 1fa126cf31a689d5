// Package posterstore persists finished posters: image bytes go to the file
// store, metadata to the asset repository.
package posterstore

import (
	"context"
	"fmt"

	"poster-server/internal/domain"
	"poster-server/internal/imaging"
	"poster-server/internal/pipeline"
	"poster-server/internal/storage"
)

// Writer is the subset of storage.FileStore used to write images.
type Writer interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
}

// Saver stores successful pipeline results.
type Saver struct {
	files  Writer
	assets domain.AssetRepository
}

func NewSaver(files Writer, assets domain.AssetRepository) *Saver {
	return &Saver{files: files, assets: assets}
}

// Target identifies who a poster belongs to and which batch produced it.
type Target struct {
	OwnerID   string
	JobID     string
	RequestID string
	Format    domain.OutputFormat
}

// Save writes one successful result and returns its asset record.
func (s *Saver) Save(ctx context.Context, t Target, res pipeline.Result) (*domain.PosterAsset, error) {
	if !res.OK() {
		return nil, fmt.Errorf("posterstore: variant %d has no design", res.Index)
	}
	mime, data, err := imaging.ParseDataURI(res.Design.DataURI)
	if err != nil {
		return nil, fmt.Errorf("posterstore: decode design: %w", err)
	}
	key, err := s.files.Write(ctx, storage.PosterKey(t.OwnerID, t.RequestID, res.Index, mime), data)
	if err != nil {
		return nil, err
	}
	asset := &domain.PosterAsset{
		UserID:       t.OwnerID,
		JobID:        t.JobID,
		VariantIndex: res.Index,
		RecipeID:     res.RecipeID,
		Name:         res.Design.Name,
		StorageKey:   key,
		MimeType:     mime,
		Bytes:        int64(len(data)),
		Width:        res.Design.Width,
		Height:       res.Design.Height,
		Format:       t.Format,
		Language:     res.TargetLanguage,
		Model:        res.ModelUsed,
	}
	if err := s.assets.Save(ctx, asset); err != nil {
		return nil, fmt.Errorf("posterstore: save asset: %w", err)
	}
	return asset, nil
}

// Summaries converts batch results to persisted variant summaries, joining
// the asset IDs of saved variants.
func Summaries(results []pipeline.Result, assetIDs map[int]string) []domain.VariantResult {
	out := make([]domain.VariantResult, 0, len(results))
	for _, r := range results {
		v := domain.VariantResult{
			Index:          r.Index,
			RecipeID:       r.RecipeID,
			AssetID:        assetIDs[r.Index],
			Model:          r.ModelUsed,
			TargetLanguage: r.TargetLanguage,
			WasTranslated:  r.WasTranslated,
		}
		if r.Err != nil {
			v.Error = r.Err.Error()
		}
		out = append(out, v)
	}
	return out
}
