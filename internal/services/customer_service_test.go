package services_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"storefront/internal/apperr"
	"storefront/internal/domain"
	"storefront/internal/repos"
	"storefront/internal/services"
)

func TestCustomerCreateReadRoundTrip(t *testing.T) {
	db := testdb(t)
	customers := services.NewCustomerService(repos.NewCustomerRepo(db))

	created, err := customers.Create("Thomas Jack", "thomas@gmail.com", "3234562345")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.NotEmpty(t, created.CreatedAt)

	got, err := customers.Get(created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)
}

func TestCustomerEmailConflict(t *testing.T) {
	db := testdb(t)
	customers := services.NewCustomerService(repos.NewCustomerRepo(db))

	_, err := customers.Create("A", "same@example.com", "1234567890")
	require.NoError(t, err)
	_, err = customers.Create("B", "SAME@example.com", "0987654321")
	require.True(t, apperr.IsKind(err, apperr.KindConflict), "got %v", err)
}

func TestCustomerPartialUpdate(t *testing.T) {
	db := testdb(t)
	customers := services.NewCustomerService(repos.NewCustomerRepo(db))

	created, err := customers.Create("Old Name", "old@example.com", "1234567890")
	require.NoError(t, err)

	name := "New Name"
	got, err := customers.Update(created.ID, services.CustomerUpdate{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "New Name", got.Name)
	require.Equal(t, "old@example.com", got.Email) // untouched
	require.Equal(t, "1234567890", got.Phone)

	_, err = customers.Update("missing", services.CustomerUpdate{Name: &name})
	require.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestCustomerDeleteWithoutDependents(t *testing.T) {
	db := testdb(t)
	customers := services.NewCustomerService(repos.NewCustomerRepo(db))

	created, err := customers.Create("Gone Soon", "gone@example.com", "1234567890")
	require.NoError(t, err)

	require.NoError(t, customers.Delete(created.ID))

	_, err = customers.Get(created.ID)
	require.True(t, apperr.IsKind(err, apperr.KindNotFound))

	require.True(t, apperr.IsKind(customers.Delete(created.ID), apperr.KindNotFound))
}

func TestCustomerDeleteRejectedWhileOrdersExist(t *testing.T) {
	db := testdb(t)
	custRepo := repos.NewCustomerRepo(db)
	customers := services.NewCustomerService(custRepo)
	catalog := services.NewCatalogService(repos.NewProductRepo(db), nil, 0)
	orders := services.NewOrderService(custRepo, repos.NewOrderRepo(db), nil)

	cust, err := customers.Create("Buyer", "buyer@example.com", "1234567890")
	require.NoError(t, err)
	prod, err := catalog.Create("Widget", "", 9.99, 5)
	require.NoError(t, err)
	_, err = orders.Place(cust.ID, []repos.ItemReq{{ProductID: prod.ID, Qty: 1}})
	require.NoError(t, err)

	err = customers.Delete(cust.ID)
	require.True(t, apperr.IsKind(err, apperr.KindConflict), "got %v", err)

	// Customer is still readable after the rejected delete.
	_, err = customers.Get(cust.ID)
	require.NoError(t, err)
}

func TestCustomerDeleteCascadesAccount(t *testing.T) {
	db := testdb(t)
	custRepo := repos.NewCustomerRepo(db)
	acctRepo := repos.NewAccountRepo(db)
	customers := services.NewCustomerService(custRepo)
	accounts := services.NewAccountService(acctRepo, custRepo)

	cust, err := customers.Create("Holder", "holder@example.com", "1234567890")
	require.NoError(t, err)
	acct, err := accounts.Create(cust.ID, "holder", "Str0ng!Pass")
	require.NoError(t, err)

	require.NoError(t, customers.Delete(cust.ID))

	_, err = accounts.Get(acct.ID)
	require.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestAccountOnePerCustomer(t *testing.T) {
	db := testdb(t)
	custRepo := repos.NewCustomerRepo(db)
	accounts := services.NewAccountService(repos.NewAccountRepo(db), custRepo)
	customers := services.NewCustomerService(custRepo)

	cust, err := customers.Create("Single", "single@example.com", "1234567890")
	require.NoError(t, err)

	a, err := accounts.Create(cust.ID, "single", "Str0ng!Pass")
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, a.Role)
	require.True(t, a.Active)

	// Credential material is hashed at rest and never serialized.
	require.NotEqual(t, "Str0ng!Pass", a.Hash)
	b, err := json.Marshal(a)
	require.NoError(t, err)
	require.NotContains(t, string(b), "Str0ng!Pass")
	require.NotContains(t, string(b), a.Hash)

	_, err = accounts.Create(cust.ID, "single2", "Str0ng!Pass")
	require.True(t, apperr.IsKind(err, apperr.KindConflict), "got %v", err)

	_, err = accounts.Create("no-such-customer", "nobody", "Str0ng!Pass")
	require.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestAccountUsernameConflictAndUpdate(t *testing.T) {
	db := testdb(t)
	custRepo := repos.NewCustomerRepo(db)
	accounts := services.NewAccountService(repos.NewAccountRepo(db), custRepo)
	customers := services.NewCustomerService(custRepo)

	c1, err := customers.Create("One", "one@example.com", "1234567890")
	require.NoError(t, err)
	c2, err := customers.Create("Two", "two@example.com", "1234567891")
	require.NoError(t, err)

	_, err = accounts.Create(c1.ID, "taken", "Str0ng!Pass")
	require.NoError(t, err)
	_, err = accounts.Create(c2.ID, "Taken", "Str0ng!Pass")
	require.True(t, apperr.IsKind(err, apperr.KindConflict))

	a2, err := accounts.Create(c2.ID, "free", "Str0ng!Pass")
	require.NoError(t, err)

	name := "renamed"
	got, err := accounts.Update(a2.ID, services.AccountUpdate{Username: &name})
	require.NoError(t, err)
	require.Equal(t, "renamed", got.Username)

	conflict := "taken"
	_, err = accounts.Update(a2.ID, services.AccountUpdate{Username: &conflict})
	require.True(t, apperr.IsKind(err, apperr.KindConflict))
}
