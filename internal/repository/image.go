package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minhvu-dev/invoice-ocr/internal/common"
	"github.com/minhvu-dev/invoice-ocr/internal/entity"
)

type ImageRepository interface {
	Save(ctx context.Context, img *entity.ImageFile) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ImageFile, error)
}

type imageRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewImageRepository(pool *pgxpool.Pool, logger *slog.Logger) ImageRepository {
	return &imageRepo{pool: pool, logger: logger}
}

func (r *imageRepo) Save(ctx context.Context, img *entity.ImageFile) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO images (id, filename, content_type, data, file_size, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		img.ID, img.Filename, img.ContentType, img.Data, img.FileSize, img.CreatedAt)
	if err != nil {
		r.logger.Error("failed to save image", "image_id", img.ID, "filename", img.Filename, "error", err)
		return common.WrapError(common.ErrDatabase, "saving image", err)
	}
	return nil
}

func (r *imageRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.ImageFile, error) {
	var img entity.ImageFile
	err := r.pool.QueryRow(ctx,
		`SELECT id, filename, content_type, data, file_size, created_at
		 FROM images WHERE id = $1`, id).
		Scan(&img.ID, &img.Filename, &img.ContentType, &img.Data, &img.FileSize, &img.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.WrapError(common.ErrNotFound, "image not found", nil)
	}
	if err != nil {
		r.logger.Error("failed to get image", "image_id", id, "error", err)
		return nil, common.WrapError(common.ErrDatabase, "loading image", err)
	}
	return &img, nil
}
