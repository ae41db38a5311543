package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/picshare/backend/internal/db"
	"github.com/picshare/backend/internal/models"
)

const accountColumns = `id, username, display_name, avatar_url, is_private, created_at, updated_at`

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrConflict
		case "23503":
			return ErrNotFound
		}
	}
	return err
}

// PostgresAccountRepository provides read-only access to account records.
type PostgresAccountRepository struct {
	pool db.Pool
}

// NewPostgresAccountRepository constructs an account reader backed by PostgreSQL.
func NewPostgresAccountRepository(pool db.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

// Find fetches a single account by id.
func (r *PostgresAccountRepository) Find(ctx context.Context, id string) (models.Account, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Account{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT `+accountColumns+`
        FROM accounts
        WHERE id = $1
    `, id)

	var account models.Account
	if err := row.Scan(&account.ID, &account.Username, &account.DisplayName, &account.AvatarURL, &account.IsPrivate, &account.CreatedAt, &account.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Account{}, ErrNotFound
		}
		return models.Account{}, fmt.Errorf("select account: %w", err)
	}

	return account, nil
}

// PostgresGraphRepository persists the relationship graph: follow edges,
// follow requests, restrictions, and close-friend entries.
type PostgresGraphRepository struct {
	pool db.Pool
}

// NewPostgresGraphRepository constructs a graph repository backed by PostgreSQL.
func NewPostgresGraphRepository(pool db.Pool) *PostgresGraphRepository {
	return &PostgresGraphRepository{pool: pool}
}

// PairState reads every relation between the ordered pair in one round trip.
func (r *PostgresGraphRepository) PairState(ctx context.Context, viewerID, subjectID string) (models.PairState, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.PairState{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT
            EXISTS (SELECT 1 FROM restrictions WHERE restricter_id = $1 AND restricted_id = $2 AND kind = 'blocked'),
            EXISTS (SELECT 1 FROM restrictions WHERE restricter_id = $2 AND restricted_id = $1 AND kind = 'blocked'),
            EXISTS (SELECT 1 FROM restrictions WHERE restricter_id = $1 AND restricted_id = $2 AND kind = 'restricted'),
            EXISTS (SELECT 1 FROM restrictions WHERE restricter_id = $1 AND restricted_id = $2 AND kind = 'muted'),
            EXISTS (SELECT 1 FROM close_friends WHERE owner_id = $1 AND friend_id = $2),
            EXISTS (SELECT 1 FROM follow_requests WHERE requester_id = $1 AND target_id = $2 AND status = 'pending'),
            EXISTS (SELECT 1 FROM follow_requests WHERE requester_id = $2 AND target_id = $1 AND status = 'pending'),
            EXISTS (SELECT 1 FROM follow_edges WHERE follower_id = $1 AND target_id = $2),
            EXISTS (SELECT 1 FROM follow_edges WHERE follower_id = $2 AND target_id = $1)
    `, viewerID, subjectID)

	var state models.PairState
	if err := row.Scan(
		&state.BlockedByViewer,
		&state.BlockedBySubject,
		&state.RestrictedByViewer,
		&state.MutedByViewer,
		&state.CloseFriendOfViewer,
		&state.PendingFromViewer,
		&state.PendingFromSubject,
		&state.ViewerFollowsSubject,
		&state.SubjectFollowsViewer,
	); err != nil {
		return models.PairState{}, fmt.Errorf("scan pair state: %w", err)
	}

	return state, nil
}

// CreateEdge inserts the follower->target edge and reads the reverse edge in
// the same transaction, so concurrent bidirectional follows each see the
// true post-commit mutuality.
func (r *PostgresGraphRepository) CreateEdge(ctx context.Context, followerID, targetID string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
        INSERT INTO follow_edges (follower_id, target_id, created_at)
        VALUES ($1, $2, $3)
    `, followerID, targetID, time.Now().UTC()); err != nil {
		if mapped := mapPgError(err); mapped != err {
			return false, mapped
		}
		return false, fmt.Errorf("insert follow edge: %w", err)
	}

	var mutual bool
	if err := tx.QueryRow(ctx, `
        SELECT EXISTS (SELECT 1 FROM follow_edges WHERE follower_id = $1 AND target_id = $2)
    `, targetID, followerID).Scan(&mutual); err != nil {
		return false, fmt.Errorf("check reverse edge: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit follow edge: %w", err)
	}

	return mutual, nil
}

// DeleteEdge removes the follower->target edge. Removing a missing edge is
// not an error.
func (r *PostgresGraphRepository) DeleteEdge(ctx context.Context, followerID, targetID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `
        DELETE FROM follow_edges
        WHERE follower_id = $1 AND target_id = $2
    `, followerID, targetID); err != nil {
		return fmt.Errorf("delete follow edge: %w", err)
	}

	return nil
}

// CreateRequest persists a new pending follow request. The partial unique
// index on pending pairs turns a concurrent duplicate into ErrConflict.
func (r *PostgresGraphRepository) CreateRequest(ctx context.Context, request models.FollowRequest) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `
        INSERT INTO follow_requests (id, requester_id, target_id, status, created_at, responded_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, request.ID, request.RequesterID, request.TargetID, request.Status, request.CreatedAt, request.RespondedAt); err != nil {
		if mapped := mapPgError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("insert follow request: %w", err)
	}

	return nil
}

// AcceptRequest flips the pending requester->owner request to accepted and
// creates the follow edge, in one transaction.
func (r *PostgresGraphRepository) AcceptRequest(ctx context.Context, requesterID, ownerID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := time.Now().UTC()
	tag, err := tx.Exec(ctx, `
        UPDATE follow_requests
        SET status = $3, responded_at = $4
        WHERE requester_id = $1 AND target_id = $2 AND status = $5
    `, requesterID, ownerID, models.RequestStatusAccepted, now, models.RequestStatusPending)
	if err != nil {
		return fmt.Errorf("accept follow request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx, `
        INSERT INTO follow_edges (follower_id, target_id, created_at)
        VALUES ($1, $2, $3)
        ON CONFLICT DO NOTHING
    `, requesterID, ownerID, now); err != nil {
		return fmt.Errorf("insert accepted follow edge: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit follow request acceptance: %w", err)
	}

	return nil
}

// CloseRequest marks the pending requester->target request with a terminal
// status. Returns ErrNotFound when no pending request exists.
func (r *PostgresGraphRepository) CloseRequest(ctx context.Context, requesterID, targetID, status string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE follow_requests
        SET status = $3, responded_at = $4
        WHERE requester_id = $1 AND target_id = $2 AND status = $5
    `, requesterID, targetID, status, time.Now().UTC(), models.RequestStatusPending)
	if err != nil {
		return fmt.Errorf("close follow request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ApplyBlock runs the whole block cleanup as one transaction: edges and
// close-friend entries in both directions are removed, pending requests in
// both directions are cancelled, then the blocked restriction is inserted.
// A crash mid-sequence can never leave a restriction beside a stale edge.
func (r *PostgresGraphRepository) ApplyBlock(ctx context.Context, blockerID, blockedID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
        DELETE FROM follow_edges
        WHERE (follower_id = $1 AND target_id = $2)
           OR (follower_id = $2 AND target_id = $1)
    `, blockerID, blockedID); err != nil {
		return fmt.Errorf("delete follow edges: %w", err)
	}

	if _, err := tx.Exec(ctx, `
        UPDATE follow_requests
        SET status = $3, responded_at = $4
        WHERE status = $5
          AND ((requester_id = $1 AND target_id = $2)
            OR (requester_id = $2 AND target_id = $1))
    `, blockerID, blockedID, models.RequestStatusCancelled, time.Now().UTC(), models.RequestStatusPending); err != nil {
		return fmt.Errorf("cancel pending requests: %w", err)
	}

	if _, err := tx.Exec(ctx, `
        DELETE FROM close_friends
        WHERE (owner_id = $1 AND friend_id = $2)
           OR (owner_id = $2 AND friend_id = $1)
    `, blockerID, blockedID); err != nil {
		return fmt.Errorf("delete close friends: %w", err)
	}

	if _, err := tx.Exec(ctx, `
        INSERT INTO restrictions (restricter_id, restricted_id, kind, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT DO NOTHING
    `, blockerID, blockedID, models.RestrictionBlocked, time.Now().UTC()); err != nil {
		if mapped := mapPgError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("insert block restriction: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit block: %w", err)
	}

	return nil
}

// AddRestriction inserts a restriction of the given kind. Inserting an
// existing restriction is a no-op.
func (r *PostgresGraphRepository) AddRestriction(ctx context.Context, restricterID, restrictedID, kind string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `
        INSERT INTO restrictions (restricter_id, restricted_id, kind, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT DO NOTHING
    `, restricterID, restrictedID, kind, time.Now().UTC()); err != nil {
		if mapped := mapPgError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("insert restriction: %w", err)
	}

	return nil
}

// RemoveRestriction deletes a restriction of the given kind. Removing a
// missing restriction is not an error.
func (r *PostgresGraphRepository) RemoveRestriction(ctx context.Context, restricterID, restrictedID, kind string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `
        DELETE FROM restrictions
        WHERE restricter_id = $1 AND restricted_id = $2 AND kind = $3
    `, restricterID, restrictedID, kind); err != nil {
		return fmt.Errorf("delete restriction: %w", err)
	}

	return nil
}

// AddCloseFriend inserts a close-friend entry. Idempotent.
func (r *PostgresGraphRepository) AddCloseFriend(ctx context.Context, ownerID, friendID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `
        INSERT INTO close_friends (owner_id, friend_id, created_at)
        VALUES ($1, $2, $3)
        ON CONFLICT DO NOTHING
    `, ownerID, friendID, time.Now().UTC()); err != nil {
		if mapped := mapPgError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("insert close friend: %w", err)
	}

	return nil
}

// RemoveCloseFriend deletes a close-friend entry. Idempotent.
func (r *PostgresGraphRepository) RemoveCloseFriend(ctx context.Context, ownerID, friendID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `
        DELETE FROM close_friends
        WHERE owner_id = $1 AND friend_id = $2
    `, ownerID, friendID); err != nil {
		return fmt.Errorf("delete close friend: %w", err)
	}

	return nil
}

// CloseFriends lists the owner's close friends, newest first.
func (r *PostgresGraphRepository) CloseFriends(ctx context.Context, ownerID string) ([]models.Account, error) {
	return r.queryAccounts(ctx, `
        SELECT `+prefixedAccountColumns+`
        FROM close_friends cf
        JOIN accounts a ON a.id = cf.friend_id
        WHERE cf.owner_id = $1
        ORDER BY cf.created_at DESC
    `, ownerID)
}

// Followers lists accounts following the given account, newest edge first.
func (r *PostgresGraphRepository) Followers(ctx context.Context, accountID string) ([]models.Account, error) {
	return r.queryAccounts(ctx, `
        SELECT `+prefixedAccountColumns+`
        FROM follow_edges e
        JOIN accounts a ON a.id = e.follower_id
        WHERE e.target_id = $1
        ORDER BY e.created_at DESC
    `, accountID)
}

// Following lists accounts the given account follows, newest edge first.
func (r *PostgresGraphRepository) Following(ctx context.Context, accountID string) ([]models.Account, error) {
	return r.queryAccounts(ctx, `
        SELECT `+prefixedAccountColumns+`
        FROM follow_edges e
        JOIN accounts a ON a.id = e.target_id
        WHERE e.follower_id = $1
        ORDER BY e.created_at DESC
    `, accountID)
}

// MutualFollowers intersects the follower sets of both accounts, ordered by
// when each mutual started following the first account, newest first.
func (r *PostgresGraphRepository) MutualFollowers(ctx context.Context, firstID, secondID string) ([]models.Account, error) {
	return r.queryAccounts(ctx, `
        SELECT `+prefixedAccountColumns+`
        FROM follow_edges ea
        JOIN follow_edges eb ON eb.follower_id = ea.follower_id AND eb.target_id = $2
        JOIN accounts a ON a.id = ea.follower_id
        WHERE ea.target_id = $1
        ORDER BY ea.created_at DESC
    `, firstID, secondID)
}

const prefixedAccountColumns = `a.id, a.username, a.display_name, a.avatar_url, a.is_private, a.created_at, a.updated_at`

func (r *PostgresGraphRepository) queryAccounts(ctx context.Context, query string, args ...any) ([]models.Account, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var account models.Account
		if err := rows.Scan(&account.ID, &account.Username, &account.DisplayName, &account.AvatarURL, &account.IsPrivate, &account.CreatedAt, &account.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	return accounts, nil
}

// PendingRequestsFor lists pending requests awaiting the account's response,
// newest first, joined with the requester's account summary.
func (r *PostgresGraphRepository) PendingRequestsFor(ctx context.Context, accountID string) ([]models.FollowRequestDetail, error) {
	return r.queryRequestDetails(ctx, `
        SELECT r.id, r.requester_id, r.target_id, r.status, r.created_at, r.responded_at,
               `+prefixedAccountColumns+`
        FROM follow_requests r
        JOIN accounts a ON a.id = r.requester_id
        WHERE r.target_id = $1 AND r.status = $2
        ORDER BY r.created_at DESC
    `, accountID, models.RequestStatusPending)
}

// SentRequestsBy lists the account's own pending requests, newest first,
// joined with the target's account summary.
func (r *PostgresGraphRepository) SentRequestsBy(ctx context.Context, accountID string) ([]models.FollowRequestDetail, error) {
	return r.queryRequestDetails(ctx, `
        SELECT r.id, r.requester_id, r.target_id, r.status, r.created_at, r.responded_at,
               `+prefixedAccountColumns+`
        FROM follow_requests r
        JOIN accounts a ON a.id = r.target_id
        WHERE r.requester_id = $1 AND r.status = $2
        ORDER BY r.created_at DESC
    `, accountID, models.RequestStatusPending)
}

func (r *PostgresGraphRepository) queryRequestDetails(ctx context.Context, query string, args ...any) ([]models.FollowRequestDetail, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query follow requests: %w", err)
	}
	defer rows.Close()

	var details []models.FollowRequestDetail
	for rows.Next() {
		var (
			detail      models.FollowRequestDetail
			respondedAt sql.NullTime
		)

		if err := rows.Scan(
			&detail.Request.ID, &detail.Request.RequesterID, &detail.Request.TargetID,
			&detail.Request.Status, &detail.Request.CreatedAt, &respondedAt,
			&detail.Account.ID, &detail.Account.Username, &detail.Account.DisplayName,
			&detail.Account.AvatarURL, &detail.Account.IsPrivate, &detail.Account.CreatedAt, &detail.Account.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan follow request: %w", err)
		}

		if respondedAt.Valid {
			t := respondedAt.Time.UTC()
			detail.Request.RespondedAt = &t
		}

		details = append(details, detail)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate follow requests: %w", err)
	}

	return details, nil
}

// PostgresPrivacyRepository resolves privacy settings, creating the default
// record on first access.
type PostgresPrivacyRepository struct {
	pool db.Pool
}

// NewPostgresPrivacyRepository constructs a privacy repository backed by PostgreSQL.
func NewPostgresPrivacyRepository(pool db.Pool) *PostgresPrivacyRepository {
	return &PostgresPrivacyRepository{pool: pool}
}

// Get returns the account's privacy settings, inserting the everyone
// defaults first if no row exists. The primary key makes the insert safe
// against concurrent first reads.
func (r *PostgresPrivacyRepository) Get(ctx context.Context, accountID string) (models.PrivacySettings, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.PrivacySettings{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `
        INSERT INTO privacy_settings (account_id, who_can_see_followers, who_can_see_following, updated_at)
        VALUES ($1, $2, $2, $3)
        ON CONFLICT DO NOTHING
    `, accountID, models.VisibilityEveryone, time.Now().UTC()); err != nil {
		if mapped := mapPgError(err); mapped != err {
			return models.PrivacySettings{}, mapped
		}
		return models.PrivacySettings{}, fmt.Errorf("insert default privacy settings: %w", err)
	}

	row := conn.QueryRow(ctx, `
        SELECT account_id, who_can_see_followers, who_can_see_following, updated_at
        FROM privacy_settings
        WHERE account_id = $1
    `, accountID)

	var settings models.PrivacySettings
	if err := row.Scan(&settings.AccountID, &settings.WhoCanSeeFollowers, &settings.WhoCanSeeFollowing, &settings.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.PrivacySettings{}, ErrNotFound
		}
		return models.PrivacySettings{}, fmt.Errorf("select privacy settings: %w", err)
	}

	return settings, nil
}

var _ AccountRepository = (*PostgresAccountRepository)(nil)
var _ PrivacyRepository = (*PostgresPrivacyRepository)(nil)
var _ GraphRepository = (*PostgresGraphRepository)(nil)
