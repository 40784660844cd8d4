// internal/services/user_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/storefront-api/internal/models"
	"github.com/shopfront/storefront-api/internal/store/memory"
)

func TestCreateUser(t *testing.T) {
	svc := NewUserService(memory.New())
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, &CreateUserRequest{Email: " Asha@Example.com ", Name: "Asha"})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.Equal(t, models.UserRoleCustomer, user.Role)

	_, err = svc.CreateUser(ctx, &CreateUserRequest{Email: "ASHA@example.com"})
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)

	padded := &CreateUserRequest{Email: "  Ravi@Example.COM\t"}
	user, err = svc.CreateUser(ctx, padded)
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", user.Email)

	_, err = svc.CreateUser(ctx, &CreateUserRequest{Email: "not-an-email"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.GetUser(ctx, uuid.New())
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestAddressBook(t *testing.T) {
	svc := NewUserService(memory.New())
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, &CreateUserRequest{Email: "ravi@example.com"})
	require.NoError(t, err)

	home := testAddress()
	work := testAddress()
	work.Street = "1 Tech Park"
	office := testAddress()
	office.City = "Pune"

	for _, a := range []models.Address{home, work, office} {
		user, err = svc.AddAddress(ctx, user.ID, &a)
		require.NoError(t, err)
	}
	require.Len(t, user.Addresses, 3)

	moved := testAddress()
	moved.City = "Mysuru"
	user, err = svc.UpdateAddress(ctx, user.ID, 1, &moved)
	require.NoError(t, err)
	assert.Equal(t, "Mysuru", user.Addresses[1].City)

	user, err = svc.RemoveAddress(ctx, user.ID, 0)
	require.NoError(t, err)
	require.Len(t, user.Addresses, 2)
	assert.Equal(t, "Mysuru", user.Addresses[0].City)
	assert.Equal(t, "Pune", user.Addresses[1].City)

	fetched, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Addresses, fetched.Addresses)
}

func TestAddressBookErrors(t *testing.T) {
	svc := NewUserService(memory.New())
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, &CreateUserRequest{Email: "meera@example.com"})
	require.NoError(t, err)
	addr := testAddress()
	_, err = svc.AddAddress(ctx, user.ID, &addr)
	require.NoError(t, err)

	var nf *NotFoundError
	for _, index := range []int{-1, 1, 7} {
		_, err = svc.UpdateAddress(ctx, user.ID, index, &addr)
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "address", nf.Resource)

		_, err = svc.RemoveAddress(ctx, user.ID, index)
		require.ErrorAs(t, err, &nf)
	}

	bad := testAddress()
	bad.Email = "nope"
	_, err = svc.AddAddress(ctx, user.ID, &bad)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Fields[0].Field)

	_, err = svc.AddAddress(ctx, uuid.New(), &addr)
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "user", nf.Resource)
}
