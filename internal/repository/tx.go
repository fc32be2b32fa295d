package repository

import "gorm.io/gorm"

// TxManager 多步写操作在同一事务内执行
type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction fn 返回错误时回滚
func (m *TxManager) Transaction(fn func(tx *gorm.DB) error) error {
	return m.db.Transaction(fn)
}

type countRow struct {
	ID    int64
	Total int64
}

func countMap(rows []countRow) map[int64]int64 {
	m := make(map[int64]int64, len(rows))
	for _, r := range rows {
		m[r.ID] = r.Total
	}
	return m
}

// likePattern 生成大小写无关的子串匹配模式，转义通配符
func likePattern(q string) string {
	r := []rune{}
	for _, c := range q {
		if c == '%' || c == '_' || c == '!' {
			r = append(r, '!')
		}
		r = append(r, c)
	}
	return "%" + string(r) + "%"
}
