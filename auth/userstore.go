package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ayanel/identikit/internal/idtoolkit"
)

// restUserSource fetches revocation records from the platform's
// account-lookup endpoint. This is the default UserSource.
type restUserSource struct {
	client *idtoolkit.Client
}

var _ UserSource = (*restUserSource)(nil)

func newRESTUserSource(ctx context.Context, projectID, emulatorHost string, opts ...option.ClientOption) (*restUserSource, error) {
	client, err := idtoolkit.NewClient(ctx, projectID, emulatorHost, opts...)
	if err != nil {
		return nil, err
	}
	return &restUserSource{client: client}, nil
}

// RevocationRecord fetches the account record for uid and reduces it to the
// disabled flag and valid-since cutoff.
func (s *restUserSource) RevocationRecord(ctx context.Context, uid string) (*UserRevocationRecord, error) {
	account, err := s.client.LookupAccount(ctx, uid)
	if err != nil {
		if errors.Is(err, idtoolkit.ErrAccountNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, uid)
		}
		return nil, fmt.Errorf("failed to fetch user record: %w", err)
	}

	record := &UserRevocationRecord{Disabled: account.Disabled}
	if account.ValidSince != "" {
		sec, err := strconv.ParseInt(account.ValidSince, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse validSince %q: %w", account.ValidSince, err)
		}
		record.TokensValidAfter = time.Unix(sec, 0)
	}
	return record, nil
}

const (
	// usersCollection is the Firestore collection holding mirrored user
	// records.
	usersCollection = "users"

	fieldUID        = "uid"
	fieldDisabled   = "disabled"
	fieldValidSince = "valid_since"
)

// FirestoreUserSource reads revocation records from a Firestore users
// collection, for deployments that mirror user state there instead of
// exposing the lookup endpoint to this service.
//
// Documents are keyed by UID, with a query fallback on the uid field for
// collections keyed by auto-generated document IDs.
type FirestoreUserSource struct {
	client *firestore.Client
}

// Ensure FirestoreUserSource implements UserSource interface
var _ UserSource = (*FirestoreUserSource)(nil)

// NewFirestoreUserSource creates a Firestore-backed UserSource.
//
// Parameters:
//   - client: Firestore client instance
//
// Returns:
//   - FirestoreUserSource instance
func NewFirestoreUserSource(client *firestore.Client) *FirestoreUserSource {
	return &FirestoreUserSource{client: client}
}

// RevocationRecord fetches the user document for uid. Returns ErrUserNotFound
// when no document matches.
func (s *FirestoreUserSource) RevocationRecord(ctx context.Context, uid string) (*UserRevocationRecord, error) {
	doc, err := s.client.Collection(usersCollection).Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) != codes.NotFound {
			return nil, fmt.Errorf("failed to get user document: %w", err)
		}
		doc = nil
	}

	if doc == nil {
		docs, err := s.client.Collection(usersCollection).
			Where(fieldUID, "==", uid).
			Limit(1).
			Documents(ctx).
			GetAll()
		if err != nil {
			return nil, fmt.Errorf("failed to query user by UID: %w", err)
		}
		if len(docs) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, uid)
		}
		doc = docs[0]
	}

	return documentToRecord(doc.Data())
}

// documentToRecord converts Firestore document data to a revocation record.
// The valid-since field is stored as seconds since epoch.
func documentToRecord(data map[string]any) (*UserRevocationRecord, error) {
	record := &UserRevocationRecord{}

	if v, ok := data[fieldDisabled]; ok {
		disabled, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("user document field %s is not a bool", fieldDisabled)
		}
		record.Disabled = disabled
	}

	if v, ok := data[fieldValidSince]; ok && v != nil {
		sec, ok := v.(int64)
		if !ok {
			return nil, fmt.Errorf("user document field %s is not an integer", fieldValidSince)
		}
		record.TokensValidAfter = time.Unix(sec, 0)
	}

	return record, nil
}
