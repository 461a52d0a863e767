package database

import (
	"context"
	"fmt"

	"forex-signal-engine/internal/market"
	"forex-signal-engine/internal/robot"
)

// TradeRepository persists robot trades and signal history.
type TradeRepository struct {
	db *DB
}

// RobotStats is the per-robot aggregate over closed trades.
type RobotStats struct {
	RobotName    string  `json:"robot_name"`
	TotalTrades  int     `json:"total_trades"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	WinRate      float64 `json:"win_rate"`
	TotalPnLPips float64 `json:"total_pnl_pips"`
}

// NewTradeRepository creates a repository over an open connection pool.
func NewTradeRepository(db *DB) *TradeRepository {
	return &TradeRepository{db: db}
}

// HealthCheck pings the connection pool.
func (r *TradeRepository) HealthCheck(ctx context.Context) error {
	return r.db.Pool.Ping(ctx)
}

// SaveTrade upserts a trade keyed by its ID. Open trades are inserted
// once and updated in place as their status and PnL change.
func (r *TradeRepository) SaveTrade(ctx context.Context, robotName string, trade *robot.Trade) error {
	query := `
		INSERT INTO trades (id, robot_name, pair, direction, entry_price, tp_price, sl_price, status, pnl_pips, open_time, close_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, '0001-01-01 00:00:00+00'::timestamptz))
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			pnl_pips = EXCLUDED.pnl_pips,
			close_time = EXCLUDED.close_time
	`
	_, err := r.db.Pool.Exec(ctx, query,
		trade.ID, robotName, trade.Pair, string(trade.Direction),
		trade.EntryPrice, trade.TPPrice, trade.SLPrice,
		string(trade.Status), trade.PnLPips, trade.OpenTime, trade.CloseTime,
	)
	if err != nil {
		return fmt.Errorf("save trade %s: %w", trade.ID, err)
	}
	return nil
}

// SaveSignal appends a signal to the history table.
func (r *TradeRepository) SaveSignal(ctx context.Context, robotName string, signal *robot.Signal) error {
	query := `
		INSERT INTO signals (robot_name, pair, direction, signal_type, entry_price, tp_price, sl_price, trigger_price, reason, probability, emitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Pool.Exec(ctx, query,
		robotName, signal.Pair, string(signal.Direction), string(signal.Type),
		signal.EntryPrice, signal.TPPrice, signal.SLPrice, signal.TriggerPrice,
		signal.Reason, signal.Probability, signal.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("save signal for %s: %w", signal.Pair, err)
	}
	return nil
}

// ClosedTrades returns the pair's closed trades, most recent first.
func (r *TradeRepository) ClosedTrades(ctx context.Context, pair string) ([]robot.Trade, error) {
	query := `
		SELECT id, pair, direction, entry_price, tp_price, sl_price, status, pnl_pips, open_time, close_time
		FROM trades
		WHERE pair = $1 AND status != 'open'
		ORDER BY close_time DESC
	`
	rows, err := r.db.Pool.Query(ctx, query, pair)
	if err != nil {
		return nil, fmt.Errorf("query closed trades for %s: %w", pair, err)
	}
	defer rows.Close()

	var trades []robot.Trade
	for rows.Next() {
		var t robot.Trade
		var direction, status string
		if err := rows.Scan(
			&t.ID, &t.Pair, &direction, &t.EntryPrice, &t.TPPrice, &t.SLPrice,
			&status, &t.PnLPips, &t.OpenTime, &t.CloseTime,
		); err != nil {
			return nil, fmt.Errorf("scan trade row: %w", err)
		}
		t.Direction = market.Direction(direction)
		t.Status = robot.TradeStatus(status)
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// Stats aggregates a robot's closed trades into a performance summary.
func (r *TradeRepository) Stats(ctx context.Context, robotName string) (*RobotStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE pnl_pips > 0),
			COUNT(*) FILTER (WHERE pnl_pips <= 0),
			COALESCE(SUM(pnl_pips), 0)
		FROM trades
		WHERE robot_name = $1 AND status != 'open'
	`
	stats := &RobotStats{RobotName: robotName}
	err := r.db.Pool.QueryRow(ctx, query, robotName).Scan(
		&stats.TotalTrades, &stats.Wins, &stats.Losses, &stats.TotalPnLPips,
	)
	if err != nil {
		return nil, fmt.Errorf("query stats for %s: %w", robotName, err)
	}
	if stats.TotalTrades > 0 {
		stats.WinRate = float64(stats.Wins) / float64(stats.TotalTrades) * 100
	}
	return stats, nil
}
