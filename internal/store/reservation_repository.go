package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ReservationRepo provides row-level operations on the reservation
// table. One row per physical table; occupancy fields are NULL
// whenever the slot is EMPTY. All timestamps are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for callers that manage their own
// transactions.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const slotColumns = `reservation_id, restaurant_id, table_no, status, user_id, count, price, time, order_id, payment_id`

// scanSlot reads one reservation row into a ReservationSlot,
// converting SQL NULLs to nil pointers.
func scanSlot(row interface{ Scan(...interface{}) error }) (*model.ReservationSlot, error) {
	var (
		slot      model.ReservationSlot
		tableNo   sql.NullInt64
		userID    sql.NullString
		count     sql.NullInt64
		price     sql.NullFloat64
		bookedAt  sql.NullTime
		orderID   sql.NullInt64
		paymentID sql.NullString
	)
	err := row.Scan(&slot.ID, &slot.RestaurantID, &tableNo, &slot.Status,
		&userID, &count, &price, &bookedAt, &orderID, &paymentID)
	if err != nil {
		return nil, err
	}
	if tableNo.Valid {
		v := tableNo.Int64
		slot.TableNo = &v
	}
	if userID.Valid {
		v := userID.String
		slot.UserID = &v
	}
	if count.Valid {
		v := count.Int64
		slot.Count = &v
	}
	if price.Valid {
		v := price.Float64
		slot.Price = &v
	}
	if bookedAt.Valid {
		v := bookedAt.Time.UTC()
		slot.Time = &v
	}
	if orderID.Valid {
		v := orderID.Int64
		slot.OrderID = &v
	}
	if paymentID.Valid {
		v := paymentID.String
		slot.PaymentID = &v
	}
	return &slot, nil
}

// Get returns a single slot by reservation id.
func (r *ReservationRepo) Get(ctx context.Context, id int64) (*model.ReservationSlot, error) {
	const q = `SELECT ` + slotColumns + ` FROM reservation WHERE reservation_id = ?`
	slot, err := scanSlot(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	return slot, err
}

// ListByUser returns all slots currently held by a user, most recent
// booking first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID string) ([]model.ReservationSlot, error) {
	const q = `SELECT ` + slotColumns + ` FROM reservation WHERE user_id = ? ORDER BY time DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var slots []model.ReservationSlot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, *slot)
	}
	return slots, rows.Err()
}

// CreateParams carries the occupancy data for a new booking.
type CreateParams struct {
	RestaurantID int64
	UserID       string
	Count        int64
	Price        float64
	Time         time.Time
	OrderID      *int64
	PaymentID    *string
	TableNo      *int64 // pre-assigned table; nil picks a random free one
}

// Create books a free table at the restaurant: it locks a random EMPTY
// slot (or the pre-assigned one), fills the occupancy fields and sets
// the status to BOOKED. Returns ErrNoFreeTable when every slot is
// taken.
func (r *ReservationRepo) Create(ctx context.Context, p CreateParams) (*model.ReservationSlot, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	pick := `SELECT reservation_id FROM reservation
			 WHERE restaurant_id = ? AND status = 'EMPTY' ORDER BY RAND() LIMIT 1 FOR UPDATE`
	args := []interface{}{p.RestaurantID}
	if p.TableNo != nil {
		pick = `SELECT reservation_id FROM reservation
				WHERE restaurant_id = ? AND table_no = ? AND status = 'EMPTY' LIMIT 1 FOR UPDATE`
		args = append(args, *p.TableNo)
	}
	var id int64
	if err := tx.QueryRowContext(ctx, pick, args...).Scan(&id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNoFreeTable
		}
		return nil, err
	}

	const upd = `UPDATE reservation
				 SET status = 'BOOKED', user_id = ?, count = ?, price = ?, time = ?, order_id = ?, payment_id = ?
				 WHERE reservation_id = ?`
	if _, err := tx.ExecContext(ctx, upd, p.UserID, p.Count, p.Price, p.Time.UTC(),
		nullableInt(p.OrderID), nullableString(p.PaymentID), id); err != nil {
		return nil, err
	}

	slot, err := scanSlot(tx.QueryRowContext(ctx, `SELECT `+slotColumns+` FROM reservation WHERE reservation_id = ?`, id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return slot, nil
}

// CancelPreImage is the occupancy snapshot captured atomically with
// the nulling so callers can refund and notify after the row is
// already cleared.
type CancelPreImage struct {
	ReservationID int64   `json:"reservation_id"`
	RestaurantID  int64   `json:"restaurant_id"`
	UserID        string  `json:"user_id"`
	TableNo       int64   `json:"table_no"`
	RefundAmount  float64 `json:"refund_amount"`
	PaymentID     *string `json:"payment_id,omitempty"`
	OrderID       *int64  `json:"order_id,omitempty"`
}

// Cancel captures the slot's pre-image and nulls every occupancy field
// in the same transaction, leaving the row EMPTY. The pre-image's
// refund_amount is the pre-cancellation price.
func (r *ReservationRepo) Cancel(ctx context.Context, id int64) (*CancelPreImage, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	slot, err := scanSlot(tx.QueryRowContext(ctx,
		`SELECT `+slotColumns+` FROM reservation WHERE reservation_id = ? FOR UPDATE`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	pre := &CancelPreImage{
		ReservationID: slot.ID,
		RestaurantID:  slot.RestaurantID,
		PaymentID:     slot.PaymentID,
		OrderID:       slot.OrderID,
	}
	if slot.UserID != nil {
		pre.UserID = *slot.UserID
	}
	if slot.TableNo != nil {
		pre.TableNo = *slot.TableNo
	}
	if slot.Price != nil {
		pre.RefundAmount = *slot.Price
	}

	const upd = `UPDATE reservation
				 SET status = 'EMPTY', user_id = NULL, count = NULL, price = NULL,
					 time = NULL, order_id = NULL, payment_id = NULL
				 WHERE reservation_id = ?`
	if _, err := tx.ExecContext(ctx, upd, id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return pre, nil
}

// Assign puts a user on the slot with status PENDING without yet
// confirming the booking. Order and payment ids are carried forward
// when provided and left untouched otherwise.
func (r *ReservationRepo) Assign(ctx context.Context, id int64, userID string, orderID *int64, paymentID *string) (*model.ReservationSlot, error) {
	const upd = `UPDATE reservation
				 SET status = 'PENDING', user_id = ?,
					 order_id = COALESCE(?, order_id), payment_id = COALESCE(?, payment_id)
				 WHERE reservation_id = ?`
	result, err := r.db.ExecContext(ctx, upd, userID, nullableInt(orderID), nullableString(paymentID), id)
	if err != nil {
		return nil, err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		if _, getErr := r.Get(ctx, id); getErr == ErrSlotNotFound {
			return nil, ErrSlotNotFound
		}
	}
	return r.Get(ctx, id)
}

// ConfirmParams finalises a PENDING slot under a new public id.
type ConfirmParams struct {
	NewReservationID int64
	Count            int64
	Price            float64
	OrderID          *int64
	PaymentID        *string
	BookingTime      *time.Time
}

// Confirm re-keys the reservation's identity to NewReservationID and
// finalises the status as BOOKED. The identity rename happens on
// confirm, not on assignment: a reservation's public id can change
// between PENDING and BOOKED.
func (r *ReservationRepo) Confirm(ctx context.Context, oldID int64, p ConfirmParams) (*model.ReservationSlot, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const upd = `UPDATE reservation
				 SET reservation_id = ?, status = 'BOOKED', count = ?, price = ?,
					 order_id = COALESCE(?, order_id), payment_id = COALESCE(?, payment_id),
					 time = COALESCE(?, time)
				 WHERE reservation_id = ?`
	var bookedAt interface{}
	if p.BookingTime != nil {
		bookedAt = p.BookingTime.UTC()
	}
	result, err := tx.ExecContext(ctx, upd, p.NewReservationID, p.Count, p.Price,
		nullableInt(p.OrderID), nullableString(p.PaymentID), bookedAt, oldID)
	if err != nil {
		return nil, err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return nil, ErrSlotNotFound
	}

	slot, err := scanSlot(tx.QueryRowContext(ctx,
		`SELECT `+slotColumns+` FROM reservation WHERE reservation_id = ?`, p.NewReservationID))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return slot, nil
}

// Delete removes the slot row entirely. Only the reallocation flow
// uses this, when the waitlist has no candidate for the freed table.
func (r *ReservationRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reservation WHERE reservation_id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrSlotNotFound
	}
	return nil
}

func nullableInt(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullableString(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
