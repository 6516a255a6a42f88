package repository

import (
	"context"
	"errors"
	"fmt"

	"sales-order-booking/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const orderColumns = `id, store_name, location, customer_name, contact_person,
		delivery_date::text, receiving_time, remarks, attachment, orders, status, created_at`

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// Insert stores a new order. Status defaults to PENDING when empty.
func (r *orderRepository) Insert(ctx context.Context, order *model.OrderRecord) (int64, error) {
	query := `
		INSERT INTO customer_data (
			store_name, location, customer_name, contact_person, delivery_date,
			receiving_time, remarks, attachment, orders, status
		)
		VALUES ($1, $2, $3, $4, $5::text::date, $6, $7, $8, $9, COALESCE(NULLIF($10, ''), 'PENDING'))
		RETURNING id, status, created_at
	`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		order.StoreName,
		order.Location,
		order.CustomerName,
		order.ContactPerson,
		order.DeliveryDate,
		order.ReceivingTime,
		order.Remarks,
		order.Attachment,
		order.Items,
		string(order.Status),
	).Scan(&id, &order.Status, &order.CreatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("store_name", order.StoreName).
			Msg("failed to insert order")
		return 0, fmt.Errorf("failed to insert order: %w", err)
	}

	order.ID = id
	r.logger.Debug().Int64("order_id", id).Msg("order inserted successfully")

	return id, nil
}

// SelectPage returns one page of orders ordered by created_at DESC, id DESC.
func (r *orderRepository) SelectPage(ctx context.Context, q model.OrderQuery) (*model.OrderSlice, error) {
	where, args, err := buildOrderFilter(q.Filter)
	if err != nil {
		return nil, err
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM customer_data` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Error().Err(err).
			Str("field", string(q.Filter.Field)).
			Msg("failed to count orders")
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	n := len(args)
	listQuery := fmt.Sprintf(`
		SELECT %s
		FROM customer_data%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, orderColumns, where, n+1, n+2)

	rows, err := r.pool.Query(ctx, listQuery, append(args, q.Limit, q.Offset)...)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", q.Limit).
			Int("offset", q.Offset).
			Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	records := []model.OrderRecord{}
	for rows.Next() {
		rec, err := scanOrder(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return &model.OrderSlice{Records: records, TotalCount: total}, nil
}

// SelectByID retrieves one order by id.
func (r *orderRepository) SelectByID(ctx context.Context, id int64) (*model.OrderRecord, error) {
	query := `SELECT ` + orderColumns + ` FROM customer_data WHERE id = $1`

	rec, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("order_id", id).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("order_id", id).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return rec, nil
}

func scanOrder(row pgx.Row) (*model.OrderRecord, error) {
	var rec model.OrderRecord
	err := row.Scan(
		&rec.ID,
		&rec.StoreName,
		&rec.Location,
		&rec.CustomerName,
		&rec.ContactPerson,
		&rec.DeliveryDate,
		&rec.ReceivingTime,
		&rec.Remarks,
		&rec.Attachment,
		&rec.Items,
		&rec.Status,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
