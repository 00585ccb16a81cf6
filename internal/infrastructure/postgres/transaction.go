package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-event-booking-system/internal/domain/transaction"
)

// sqlTx は *sqlx.Tx を transaction.Tx として渡すためのラッパー
type sqlTx struct {
	*sqlx.Tx
}

// TxManager は READ COMMITTED でトランザクションを開始する。
// 予約の重複は部分一意インデックスで防ぐ
type TxManager struct {
	db *sqlx.DB
}

func NewTxManager(db *sqlx.DB) *TxManager {
	return &TxManager{db: db}
}

func (m *TxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	tx, err := m.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("BEGIN に失敗: %w", err)
	}
	return sqlTx{Tx: tx}, nil
}

// queryer はトランザクションがあればそれを、なければDBを返す
func queryer(db *sqlx.DB, tx transaction.Tx) sqlx.ExtContext {
	if t, ok := tx.(sqlTx); ok {
		return t.Tx
	}
	return db
}
