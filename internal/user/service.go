// Package user はユーザーディレクトリのドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/userdir/internal/metrics"
	"github.com/hitoshi/userdir/internal/model"
	"github.com/hitoshi/userdir/internal/repository"
)

// 操作名（メトリクスのラベル値）
const (
	opList   = "list"
	opGet    = "get"
	opCreate = "create"
	opEdit   = "edit"
	opDelete = "delete"
	opSearch = "search"
)

// Service はユーザーディレクトリのサービス層。
// 一覧・参照・登録・更新・削除・検索を提供する。
type Service struct {
	userRepo repository.UserRepository
	metrics  metrics.MetricsCollector
}

// NewService はServiceの新しいインスタンスを生成する。
// collectorがnilの場合はメトリクスを記録しない。
func NewService(userRepo repository.UserRepository, collector metrics.MetricsCollector) *Service {
	if collector == nil {
		collector = metrics.NopCollector{}
	}
	return &Service{
		userRepo: userRepo,
		metrics:  collector,
	}
}

// List は全ユーザーを登録順で返す。
func (s *Service) List(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		s.metrics.RecordOperation(opList, metrics.ResultError)
		return nil, fmt.Errorf("ユーザー一覧の取得に失敗しました: %w", err)
	}
	s.metrics.RecordOperation(opList, metrics.ResultSuccess)
	return users, nil
}

// GetByID は指定IDのユーザーを返す。
// 見つからない場合はUSER_NOT_FOUNDエラーを返す。
func (s *Service) GetByID(ctx context.Context, id int) (*model.User, error) {
	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		s.metrics.RecordOperation(opGet, metrics.ResultError)
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if u == nil {
		s.metrics.RecordOperation(opGet, metrics.ResultNotFound)
		return nil, model.NewUserNotFoundError(id)
	}
	s.metrics.RecordOperation(opGet, metrics.ResultSuccess)
	return u, nil
}

// PrepareCreate は登録フォーム用の空のユーザーを返す。
func (s *Service) PrepareCreate() model.User {
	return model.User{}
}

// Create はユーザーを末尾に登録する。IDは指定値をそのまま使う。
func (s *Service) Create(ctx context.Context, u model.User) error {
	if err := s.userRepo.Create(ctx, &u); err != nil {
		s.metrics.RecordOperation(opCreate, metrics.ResultError)
		return fmt.Errorf("ユーザーの登録に失敗しました: %w", err)
	}
	s.metrics.RecordOperation(opCreate, metrics.ResultSuccess)

	slog.Info("ユーザーを登録しました",
		slog.Int("user_id", u.ID),
	)
	return nil
}

// PrepareEdit は編集フォーム用に指定IDのユーザーを返す。
func (s *Service) PrepareEdit(ctx context.Context, id int) (*model.User, error) {
	return s.GetByID(ctx, id)
}

// Edit は指定IDのユーザーの名前とメールアドレスを更新する。
// updated.IDは無視し、IDと並び順は維持する。
func (s *Service) Edit(ctx context.Context, id int, updated model.User) (*model.User, error) {
	u, err := s.userRepo.UpdateByID(ctx, id, updated.Name, updated.Email)
	if err != nil {
		s.metrics.RecordOperation(opEdit, metrics.ResultError)
		return nil, fmt.Errorf("ユーザーの更新に失敗しました: %w", err)
	}
	if u == nil {
		s.metrics.RecordOperation(opEdit, metrics.ResultNotFound)
		return nil, model.NewUserNotFoundError(id)
	}
	s.metrics.RecordOperation(opEdit, metrics.ResultSuccess)

	slog.Info("ユーザーを更新しました",
		slog.Int("user_id", id),
	)
	return u, nil
}

// PrepareDelete は削除確認用に指定IDのユーザーを返す。
func (s *Service) PrepareDelete(ctx context.Context, id int) (*model.User, error) {
	return s.GetByID(ctx, id)
}

// Delete は指定IDのユーザーを削除する。
// 該当ユーザーが存在しない場合は何もせず成功とする。
func (s *Service) Delete(ctx context.Context, id int) error {
	deleted, err := s.userRepo.DeleteByID(ctx, id)
	if err != nil {
		s.metrics.RecordOperation(opDelete, metrics.ResultError)
		return fmt.Errorf("ユーザーの削除に失敗しました: %w", err)
	}
	if !deleted {
		s.metrics.RecordOperation(opDelete, metrics.ResultNotFound)
		slog.Debug("削除対象のユーザーが存在しません",
			slog.Int("user_id", id),
		)
		return nil
	}
	s.metrics.RecordOperation(opDelete, metrics.ResultSuccess)

	slog.Info("ユーザーを削除しました",
		slog.Int("user_id", id),
	)
	return nil
}

// Search は名前またはメールアドレスにqueryを含むユーザーを返す。
// 該当なしは空スライスで、エラーにはしない。
func (s *Service) Search(ctx context.Context, query string) ([]model.User, error) {
	users, err := s.userRepo.Search(ctx, query)
	if err != nil {
		s.metrics.RecordOperation(opSearch, metrics.ResultError)
		return nil, fmt.Errorf("ユーザーの検索に失敗しました: %w", err)
	}
	s.metrics.RecordOperation(opSearch, metrics.ResultSuccess)
	return users, nil
}
