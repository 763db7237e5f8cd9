// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/userdir/internal/model"
)

// UserRepository はユーザーディレクトリの保存先インターフェース。
// 挿入順を保持し、IDによる検索は挿入順で最初に一致したレコードを対象とする。
type UserRepository interface {
	// List は全ユーザーを挿入順で返す。
	List(ctx context.Context) ([]model.User, error)

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int) (*model.User, error)

	// Create はユーザーを末尾に追加する。IDの重複は検査しない。
	Create(ctx context.Context, user *model.User) error

	// UpdateByID は指定IDのユーザーの名前とメールアドレスを上書きする。
	// IDと並び順は変更しない。見つからない場合はnilを返す。
	UpdateByID(ctx context.Context, id int, name, email string) (*model.User, error)

	// DeleteByID は指定IDのユーザーを削除する。
	// 削除した場合はtrue、該当がなかった場合はfalseを返す。
	DeleteByID(ctx context.Context, id int) (bool, error)

	// Search は名前またはメールアドレスにqueryを含むユーザーを挿入順で返す。
	// 大文字小文字は区別する。
	Search(ctx context.Context, query string) ([]model.User, error)

	// Count は登録済みユーザー数を返す。
	Count(ctx context.Context) (int, error)
}
