package domain

import "errors"

// パイプラインの失敗段階を表す分類エラーです。
// 各層は fmt.Errorf("%w: 詳細", ErrXxx) の形でラップし、
// CLI 層が errors.Is で終了コードへ対応付けます。
var (
	// ErrValidation は入力値（プロンプト・引数）の検証失敗です。
	ErrValidation = errors.New("入力値が不正です")
	// ErrConfiguration は必須設定（プロジェクトIDなど）の欠落です。
	ErrConfiguration = errors.New("設定が不足しています")
	// ErrAuthentication は認証情報の解決失敗・権限不足です。
	ErrAuthentication = errors.New("認証に失敗しました")
	// ErrService はリモート生成サービス側の拒否（クォータ・安全フィルター等）です。
	ErrService = errors.New("生成サービスがエラーを返しました")
	// ErrFilesystem は出力先の作成・書き込み失敗です。
	ErrFilesystem = errors.New("ファイル書き込みに失敗しました")
)
