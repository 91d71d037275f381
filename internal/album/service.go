// Package album はアルバム管理のドメインロジックを提供する。
package album

import (
	"context"
	"log/slog"

	"github.com/senna-lang/photo-map-S3-app/internal/domain"
	"github.com/senna-lang/photo-map-S3-app/internal/repository"
)

// CreateAlbumInput はアルバム作成の入力。
type CreateAlbumInput struct {
	Latitude  float64
	Longitude float64
	ImageURLs []string
}

// Service はアルバム管理のサービス層。
// 作成、取得、一覧、削除、画像の追加・削除のビジネスロジックを提供する。
type Service struct {
	albumRepo repository.AlbumRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(albumRepo repository.AlbumRepository) *Service {
	return &Service{albumRepo: albumRepo}
}

// CreateAlbum は入力値を検証してアルバムを作成し、永続化する。
// 座標・画像URLのいずれかが不正な場合はバリデーションエラーを返す。
func (s *Service) CreateAlbum(ctx context.Context, ownerID domain.UserID, input CreateAlbumInput) (*domain.Album, error) {
	coordinate, err := domain.NewCoordinate(input.Latitude, input.Longitude)
	if err != nil {
		return nil, err
	}

	imageURLs := make([]domain.ImageURL, 0, len(input.ImageURLs))
	for _, raw := range input.ImageURLs {
		imageURL, err := domain.NewImageURL(raw)
		if err != nil {
			return nil, err
		}
		imageURLs = append(imageURLs, imageURL)
	}

	created, err := domain.NewAlbum(coordinate, imageURLs, ownerID)
	if err != nil {
		return nil, err
	}

	if err := s.albumRepo.Save(ctx, created); err != nil {
		return nil, err
	}

	slog.Info("album created",
		slog.String("album_id", created.ID().String()),
		slog.String("owner_id", ownerID.String()),
		slog.Int("image_count", created.ImageCount()),
	)
	return created, nil
}

// GetAlbum は指定IDのアルバムを取得する。存在しない場合はNotFoundエラーを返す。
func (s *Service) GetAlbum(ctx context.Context, albumID domain.AlbumID) (*domain.Album, error) {
	found, err := s.albumRepo.FindByID(ctx, albumID)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, domain.NewNotFoundError("アルバム", albumID.String())
	}
	return found, nil
}

// ListAlbums は全アルバムを作成日時の降順で返す。
func (s *Service) ListAlbums(ctx context.Context) ([]*domain.Album, error) {
	return s.albumRepo.FindAll(ctx)
}

// ListAlbumsByOwner は指定ユーザーが所有するアルバム一覧を作成日時の降順で返す。
func (s *Service) ListAlbumsByOwner(ctx context.Context, ownerID domain.UserID) ([]*domain.Album, error) {
	return s.albumRepo.FindByOwnerID(ctx, ownerID)
}

// DeleteAlbum は所有者本人によるアルバム削除を行う。
// 所有者以外からの削除はUnauthorizedエラーを返し、アルバムは残る。
func (s *Service) DeleteAlbum(ctx context.Context, albumID domain.AlbumID, requesterID domain.UserID) error {
	found, err := s.GetAlbum(ctx, albumID)
	if err != nil {
		return err
	}

	if !found.IsOwnedBy(requesterID) {
		return domain.NewUnauthorizedError("アルバムを削除する権限がありません")
	}

	if err := s.albumRepo.Delete(ctx, albumID); err != nil {
		return err
	}

	slog.Info("album deleted",
		slog.String("album_id", albumID.String()),
		slog.String("owner_id", requesterID.String()),
	)
	return nil
}

// AddImage はアルバムに画像を追加して保存する。
// 上限超過・重複・所有者不一致はエンティティ側の検証により失敗する。
func (s *Service) AddImage(ctx context.Context, albumID domain.AlbumID, requesterID domain.UserID, rawImageURL string) (*domain.Album, error) {
	imageURL, err := domain.NewImageURL(rawImageURL)
	if err != nil {
		return nil, err
	}

	found, err := s.GetAlbum(ctx, albumID)
	if err != nil {
		return nil, err
	}

	if err := found.AddImage(imageURL, requesterID); err != nil {
		return nil, err
	}

	if err := s.albumRepo.Save(ctx, found); err != nil {
		return nil, err
	}

	return found, nil
}

// RemoveImage はアルバムから画像を削除して保存する。
// 最後の1枚は削除できない。存在しない画像の指定は失敗する。
func (s *Service) RemoveImage(ctx context.Context, albumID domain.AlbumID, requesterID domain.UserID, rawImageURL string) (*domain.Album, error) {
	imageURL, err := domain.NewImageURL(rawImageURL)
	if err != nil {
		return nil, err
	}

	found, err := s.GetAlbum(ctx, albumID)
	if err != nil {
		return nil, err
	}

	if err := found.RemoveImage(imageURL, requesterID); err != nil {
		return nil, err
	}

	if err := s.albumRepo.Save(ctx, found); err != nil {
		return nil, err
	}

	return found, nil
}
