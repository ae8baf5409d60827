package usecase

import "errors"

// ErrPluginNotFound はプラグインが存在しないか、ソフト削除済みで対象の
// 状態遷移の条件を満たさない場合に返されます。
var ErrPluginNotFound = errors.New("plugin not found")
