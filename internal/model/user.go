// Package model はドメインモデルを定義する。
package model

// User はディレクトリに登録されたユーザーレコードを表す。
// IDは呼び出し側が指定し、自動採番はしない。
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
