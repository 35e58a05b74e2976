package model

// UpsertResult upsert 的結果
type UpsertResult int

const (
	Unchanged UpsertResult = iota
	Created
	Updated
)

// String 實現 fmt.Stringer
func (r UpsertResult) String() string {
	switch r {
	case Created:
		return "created"
	case Updated:
		return "updated"
	default:
		return "unchanged"
	}
}

// MarshalText 讓 JSON 以字串輸出
func (r UpsertResult) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Merge 合併子項目的結果：Created 優先於 Updated，Updated 優先於 Unchanged
func (r UpsertResult) Merge(other UpsertResult) UpsertResult {
	if r == Created || other == Created {
		return Created
	}
	if r == Updated || other == Updated {
		return Updated
	}
	return Unchanged
}

// Scope 購物清單彙總的使用者範圍
type Scope struct {
	UserID   uint
	AllUsers bool
}

// UserScope 只包含指定使用者的餐點
func UserScope(userID uint) Scope {
	return Scope{UserID: userID}
}

// GlobalScope 包含所有使用者的餐點
func GlobalScope() Scope {
	return Scope{AllUsers: true}
}
