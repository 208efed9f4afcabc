package auth

import (
	"errors"
	"testing"
	"time"
)

func TestCheckNotRevoked(t *testing.T) {
	authTime := time.Unix(1700000000, 0)
	token := &Token{Subject: "user-1", AuthTime: authTime}

	tests := []struct {
		name    string
		record  UserRevocationRecord
		wantErr error
	}{
		{
			name:    "no cutoff and not disabled",
			record:  UserRevocationRecord{},
			wantErr: nil,
		},
		{
			name:    "cutoff before auth time",
			record:  UserRevocationRecord{TokensValidAfter: authTime.Add(-time.Second)},
			wantErr: nil,
		},
		{
			name:    "cutoff equal to auth time",
			record:  UserRevocationRecord{TokensValidAfter: authTime},
			wantErr: nil,
		},
		{
			name:    "cutoff after auth time",
			record:  UserRevocationRecord{TokensValidAfter: authTime.Add(time.Second)},
			wantErr: ErrIDTokenRevoked,
		},
		{
			name:    "disabled user",
			record:  UserRevocationRecord{Disabled: true},
			wantErr: ErrUserDisabled,
		},
		{
			name: "disabled wins over valid cutoff",
			record: UserRevocationRecord{
				Disabled:         true,
				TokensValidAfter: authTime.Add(-time.Hour),
			},
			wantErr: ErrUserDisabled,
		},
		{
			name: "disabled wins over revoking cutoff",
			record: UserRevocationRecord{
				Disabled:         true,
				TokensValidAfter: authTime.Add(time.Hour),
			},
			wantErr: ErrUserDisabled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkNotRevoked(token, &tt.record, ErrIDTokenRevoked)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("checkNotRevoked() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckNotRevoked_SessionCookieKind(t *testing.T) {
	token := &Token{Subject: "user-1", AuthTime: time.Unix(1700000000, 0)}
	record := &UserRevocationRecord{TokensValidAfter: token.AuthTime.Add(time.Minute)}

	err := checkNotRevoked(token, record, ErrSessionCookieRevoked)
	if !errors.Is(err, ErrSessionCookieRevoked) {
		t.Errorf("checkNotRevoked() error = %v, want ErrSessionCookieRevoked", err)
	}
}

func TestCheckNotRevoked_SubSecondDrift(t *testing.T) {
	// The authority mints second-precision timestamps. Sub-second noise
	// picked up in serialization must not flip the comparison.
	base := time.Unix(1700000000, 0)
	token := &Token{Subject: "user-1", AuthTime: base.Add(300 * time.Millisecond)}
	record := &UserRevocationRecord{TokensValidAfter: base.Add(700 * time.Millisecond)}

	if err := checkNotRevoked(token, record, ErrIDTokenRevoked); err != nil {
		t.Errorf("checkNotRevoked() error = %v, want nil after truncation", err)
	}
}
