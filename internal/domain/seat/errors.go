package seat

import "errors"

// Seat ドメインのエラー定義
var (
	// ErrSeatNotFound は呼び出し側の誤りであり、リトライ対象外
	ErrSeatNotFound = errors.New("座席が見つかりません")

	// ErrSeatAlreadyBooked は業務上の終了結果として失敗扱いになる
	ErrSeatAlreadyBooked = errors.New("座席は既に予約されています")

	// ErrSeatNotSelectable は available/selected 以外の座席への選択操作
	ErrSeatNotSelectable = errors.New("座席は選択できる状態ではありません")

	// ErrVersionConflict は一時的な競合。楽観的戦略の内部でリトライされる
	ErrVersionConflict = errors.New("バージョン競合が発生しました")

	// ErrLockTimeout は悲観的戦略の終了結果。自動リトライせず呼び出し側に返す
	ErrLockTimeout = errors.New("座席ロックの取得がタイムアウトしました")

	// ErrMaxRetriesExceeded はリトライ予算を使い切った楽観的戦略の終了結果
	ErrMaxRetriesExceeded = errors.New("リトライ上限を超えました")
)
