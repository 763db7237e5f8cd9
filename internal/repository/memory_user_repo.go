package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/hitoshi/userdir/internal/model"
)

// MemoryUserRepo はプロセス内メモリにユーザーを保持するリポジトリ。
// 単一のRWMutexでスライス全体を保護する。
// 返却値はコピーであり、呼び出し側の変更は保存内容に影響しない。
type MemoryUserRepo struct {
	mu    sync.RWMutex
	users []model.User
}

// NewMemoryUserRepo は空のMemoryUserRepoを生成する。
func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{}
}

// List は全ユーザーを挿入順で返す。
func (r *MemoryUserRepo) List(ctx context.Context) ([]model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]model.User, len(r.users))
	copy(users, r.users)
	return users, nil
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *MemoryUserRepo) FindByID(ctx context.Context, id int) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	u := r.users[i]
	return &u, nil
}

// Create はユーザーを末尾に追加する。
func (r *MemoryUserRepo) Create(ctx context.Context, user *model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.users = append(r.users, *user)
	return nil
}

// UpdateByID は指定IDのユーザーの名前とメールアドレスを上書きする。
func (r *MemoryUserRepo) UpdateByID(ctx context.Context, id int, name, email string) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	r.users[i].Name = name
	r.users[i].Email = email

	u := r.users[i]
	return &u, nil
}

// DeleteByID は指定IDのユーザーを削除する。
func (r *MemoryUserRepo) DeleteByID(ctx context.Context, id int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return false, nil
	}
	r.users = append(r.users[:i], r.users[i+1:]...)
	return true, nil
}

// Search は名前またはメールアドレスにqueryを含むユーザーを挿入順で返す。
func (r *MemoryUserRepo) Search(ctx context.Context, query string) ([]model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]model.User, 0)
	for _, u := range r.users {
		if strings.Contains(u.Name, query) || strings.Contains(u.Email, query) {
			matched = append(matched, u)
		}
	}
	return matched, nil
}

// Count は登録済みユーザー数を返す。
func (r *MemoryUserRepo) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users), nil
}

// indexOf は挿入順で最初にIDが一致する位置を返す。呼び出し側でロックを保持すること。
func (r *MemoryUserRepo) indexOf(id int) int {
	for i, u := range r.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

// compile-time interface check
var _ UserRepository = (*MemoryUserRepo)(nil)
