package service

import (
	"context"
	"errors"
	"testing"

	"github.com/skillswap/skillswap-api/internal/core/domain"
)

func TestIdentityResolver_Resolve(t *testing.T) {
	users := newStubStore(domain.KindUser)
	admins := newStubStore(domain.KindAdmin)
	users.put(domain.Principal{ID: "u1", Username: "alice", Role: domain.RoleUser})
	admins.put(domain.Principal{ID: "a1", Username: "root", Role: domain.RoleAdmin})
	admins.put(domain.Principal{ID: "a2", Username: "alice", Role: domain.RoleAdmin})

	r := NewIdentityResolver(users, admins)

	tests := []struct {
		name     string
		username string
		want     domain.AuthIdentity
		wantErr  error
	}{
		{name: "user record", username: "alice", want: domain.AuthIdentity{Username: "alice", Role: domain.RoleUser}},
		{name: "admin record", username: "root", want: domain.AuthIdentity{Username: "root", Role: domain.RoleAdmin}},
		{name: "absent from both", username: "ghost", wantErr: domain.ErrIdentityNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(context.Background(), tt.username)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestIdentityResolver_StoreFailuresPropagate(t *testing.T) {
	users := newStubStore(domain.KindUser)
	admins := newStubStore(domain.KindAdmin)

	users.findErr = errStoreDown
	_, err := NewIdentityResolver(users, admins).Resolve(context.Background(), "alice")
	if !errors.Is(err, errStoreDown) || errors.Is(err, domain.ErrIdentityNotFound) {
		t.Fatalf("user store failure must propagate unmasked, got %v", err)
	}

	users.findErr = nil
	admins.findErr = errStoreDown
	_, err = NewIdentityResolver(users, admins).Resolve(context.Background(), "alice")
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("admin store failure must propagate, got %v", err)
	}
}
