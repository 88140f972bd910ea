package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const customPCColumns = `id, customer_name, customer_email, customer_phone, cpu, gpu, ram, ram_included,
    motherboard, storage, case_type, power_supply, cooling, additional_notes, estimated_price,
    assembly_fee, status, admin_notes, created_at, approved_at, completed_at`

func scanCustomPC(row scanner) (CustomPcRequest, error) {
	var i CustomPcRequest
	err := row.Scan(
		&i.ID,
		&i.CustomerName,
		&i.CustomerEmail,
		&i.CustomerPhone,
		&i.Cpu,
		&i.Gpu,
		&i.Ram,
		&i.RamIncluded,
		&i.Motherboard,
		&i.Storage,
		&i.CaseType,
		&i.PowerSupply,
		&i.Cooling,
		&i.AdditionalNotes,
		&i.EstimatedPrice,
		&i.AssemblyFee,
		&i.Status,
		&i.AdminNotes,
		&i.CreatedAt,
		&i.ApprovedAt,
		&i.CompletedAt,
	)
	return i, err
}

const createCustomPCRequest = `-- name: CreateCustomPCRequest :one
INSERT INTO custom_pc_requests (
    customer_name, customer_email, customer_phone, cpu, gpu, ram, ram_included,
    motherboard, storage, case_type, power_supply, cooling, additional_notes,
    estimated_price, assembly_fee, status
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, 'pending'
)
RETURNING ` + customPCColumns

type CreateCustomPCRequestParams struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	Cpu             string
	Gpu             string
	Ram             string
	RamIncluded     bool
	Motherboard     string
	Storage         string
	CaseType        string
	PowerSupply     string
	Cooling         string
	AdditionalNotes string
	EstimatedPrice  pgtype.Numeric
	AssemblyFee     pgtype.Numeric
}

func (q *Queries) CreateCustomPCRequest(ctx context.Context, arg CreateCustomPCRequestParams) (CustomPcRequest, error) {
	row := q.db.QueryRow(ctx, createCustomPCRequest,
		arg.CustomerName,
		arg.CustomerEmail,
		arg.CustomerPhone,
		arg.Cpu,
		arg.Gpu,
		arg.Ram,
		arg.RamIncluded,
		arg.Motherboard,
		arg.Storage,
		arg.CaseType,
		arg.PowerSupply,
		arg.Cooling,
		arg.AdditionalNotes,
		arg.EstimatedPrice,
		arg.AssemblyFee,
	)
	return scanCustomPC(row)
}

const getCustomPCRequest = `-- name: GetCustomPCRequest :one
SELECT ` + customPCColumns + ` FROM custom_pc_requests WHERE id = $1
`

func (q *Queries) GetCustomPCRequest(ctx context.Context, id pgtype.UUID) (CustomPcRequest, error) {
	return scanCustomPC(q.db.QueryRow(ctx, getCustomPCRequest, id))
}

const listCustomPCRequests = `-- name: ListCustomPCRequests :many
SELECT ` + customPCColumns + `
FROM custom_pc_requests
WHERE ($1::text IS NULL OR status = $1::text)
ORDER BY created_at DESC
`

func (q *Queries) ListCustomPCRequests(ctx context.Context, status pgtype.Text) ([]CustomPcRequest, error) {
	rows, err := q.db.Query(ctx, listCustomPCRequests, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []CustomPcRequest{}
	for rows.Next() {
		i, err := scanCustomPC(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const transitionCustomPCRequest = `-- name: TransitionCustomPCRequest :one
UPDATE custom_pc_requests SET
    status = $2,
    approved_at = CASE WHEN $2 = 'approved' THEN NOW() ELSE approved_at END,
    completed_at = CASE WHEN $2 = 'completed' THEN NOW() ELSE completed_at END
WHERE id = $1 AND status = $3
RETURNING ` + customPCColumns

type TransitionCustomPCRequestParams struct {
	ID         pgtype.UUID
	Status     string
	FromStatus string
}

func (q *Queries) TransitionCustomPCRequest(ctx context.Context, arg TransitionCustomPCRequestParams) (CustomPcRequest, error) {
	return scanCustomPC(q.db.QueryRow(ctx, transitionCustomPCRequest, arg.ID, arg.Status, arg.FromStatus))
}

const updateCustomPCNotes = `-- name: UpdateCustomPCNotes :one
UPDATE custom_pc_requests SET admin_notes = $2
WHERE id = $1
RETURNING ` + customPCColumns

type UpdateCustomPCNotesParams struct {
	ID         pgtype.UUID
	AdminNotes string
}

func (q *Queries) UpdateCustomPCNotes(ctx context.Context, arg UpdateCustomPCNotesParams) (CustomPcRequest, error) {
	return scanCustomPC(q.db.QueryRow(ctx, updateCustomPCNotes, arg.ID, arg.AdminNotes))
}
