package httpapi_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/beneficiary-admin/internal/adapters/httpapi"
	"github.com/csg33k/beneficiary-admin/internal/domain"
	"github.com/csg33k/beneficiary-admin/internal/session"
	"github.com/csg33k/beneficiary-admin/internal/testutil/fakeapi"
)

func setup(t *testing.T) (*httpapi.Client, *session.Session, *fakeapi.Server) {
	t.Helper()
	api := fakeapi.New(t)
	sess := session.New(nil, nil)
	return httpapi.NewClient(api.URL, sess), sess, api
}

func login(t *testing.T, c *httpapi.Client) {
	t.Helper()
	_, err := c.Login(context.Background(), domain.AdminCredential{Username: fakeapi.Username, Password: fakeapi.Password})
	require.NoError(t, err)
}

func TestLogin_StoresToken(t *testing.T) {
	c, sess, _ := setup(t)
	ctx := context.Background()

	tok, err := c.Login(ctx, domain.AdminCredential{Username: fakeapi.Username, Password: fakeapi.Password})
	require.NoError(t, err)
	assert.NotEmpty(t, tok)

	got, ok := sess.Token(ctx)
	assert.True(t, ok)
	assert.Equal(t, tok, got)
}

func TestLogin_RejectedCredentialKeepsSession(t *testing.T) {
	c, sess, _ := setup(t)
	ctx := context.Background()
	require.NoError(t, sess.Set(ctx, "previous"))
	invalidated := false
	sess.OnInvalidate(func() { invalidated = true })

	_, err := c.Login(ctx, domain.AdminCredential{Username: "admin", Password: "wrong"})
	var re *domain.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusUnauthorized, re.Status)
	assert.Equal(t, "Invalid credentials", re.Message())
	assert.False(t, invalidated)
}

func TestRequests_CarryAuthHeaderAndRequestID(t *testing.T) {
	c, _, api := setup(t)
	login(t, c)

	_, err := c.ListEmployees(context.Background())
	require.NoError(t, err)

	reqs := api.Requests()
	require.Len(t, reqs, 2)
	assert.Empty(t, reqs[0].Authorization, "login is not authenticated")
	assert.True(t, strings.HasPrefix(reqs[1].Authorization, "JWT "))
	assert.NotEmpty(t, reqs[1].RequestID)
	assert.NotEqual(t, reqs[0].RequestID, reqs[1].RequestID)
}

func TestUnauthorized_InvalidatesSession(t *testing.T) {
	c, sess, api := setup(t)
	ctx := context.Background()
	login(t, c)
	hooks := 0
	sess.OnInvalidate(func() { hooks++ })

	api.RevokeTokens()
	_, err := c.ListEmployees(ctx)

	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	assert.Equal(t, 1, hooks)
	_, ok := sess.Token(ctx)
	assert.False(t, ok)
}

func TestEmployeeRoundTrip(t *testing.T) {
	c, _, api := setup(t)
	ctx := context.Background()
	login(t, c)

	created, err := c.CreateEmployee(ctx, domain.Employee{
		NationalityID: 1, FirstName: "Ana", LastName: "Diaz",
		BirthDate: "1990-05-01", EmployeeNumber: 1001, Phone: "5551234567",
	})
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.Equal(t, "Mexican", created.Nationality, "server computes display values")

	got, err := c.GetEmployee(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *got)

	created.LastName = "Diaz Perez"
	updated, err := c.UpdateEmployee(ctx, created.ID, *created)
	require.NoError(t, err)
	assert.Equal(t, "Diaz Perez", updated.LastName)

	require.NoError(t, c.DeleteEmployee(ctx, created.ID))
	assert.Empty(t, api.Employees())
}

func TestRemoteErrorCarriesServerMessage(t *testing.T) {
	c, _, api := setup(t)
	ctx := context.Background()
	login(t, c)

	api.Fail("GET /employees", http.StatusInternalServerError, `{"message":"database offline"}`)
	_, err := c.ListEmployees(ctx)
	var re *domain.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "database offline", re.Message())
	assert.False(t, errors.Is(err, domain.ErrUnauthorized))

	api.Fail("GET /employees", http.StatusBadGateway, "upstream down")
	_, err = c.ListEmployees(ctx)
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "upstream down", re.Message())
}

func TestBeneficiariesAreScopedByPath(t *testing.T) {
	c, _, api := setup(t)
	ctx := context.Background()
	login(t, c)
	emp := api.AddEmployee(domain.Employee{FirstName: "Ana", NationalityID: 1})

	b, err := c.CreateBeneficiary(ctx, emp.ID, domain.Beneficiary{
		NationalityID: 1, FirstName: "Luis", LastName: "Diaz", BirthDate: "2010-01-02",
		Phone: "5551112222", ParticipationPercent: domain.NewPercent(decimal.RequireFromString("60.5")),
	})
	require.NoError(t, err)
	assert.Equal(t, emp.ID, b.EmployeeID)
	assert.Equal(t, "60.50", b.ParticipationPercent.String())

	b.ParticipationPercent = domain.NewPercent(decimal.NewFromInt(70))
	_, err = c.UpdateBeneficiary(ctx, emp.ID, b.ID, *b)
	require.NoError(t, err)

	list, err := c.ListBeneficiaries(ctx, emp.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "70.00", list[0].ParticipationPercent.String())

	_, err = c.CreateBeneficiary(ctx, emp.ID, domain.Beneficiary{ParticipationPercent: domain.NewPercent(decimal.NewFromInt(40))})
	var re *domain.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "Participation percent exceeds 100", re.Message())

	require.NoError(t, c.DeleteBeneficiary(ctx, emp.ID, b.ID))
	assert.Empty(t, api.Beneficiaries(emp.ID))
	assert.Equal(t, 1, api.Count("DELETE /employee/{id}/beneficiary/{bid}"))
}

func TestNationalities(t *testing.T) {
	c, _, _ := setup(t)
	login(t, c)
	nats, err := c.ListNationalities(context.Background())
	require.NoError(t, err)
	assert.Len(t, nats, 2)
}

func TestWithAuthScheme(t *testing.T) {
	api := fakeapi.New(t)
	sess := session.New(nil, nil)
	require.NoError(t, sess.Set(context.Background(), api.Token()))
	c := httpapi.NewClient(api.URL, sess, httpapi.WithAuthScheme("Bearer"))

	_, err := c.ListEmployees(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "fake api only accepts JWT scheme")
}

func TestSaveWithoutIDInResponseFails(t *testing.T) {
	c, _, api := setup(t)
	ctx := context.Background()
	login(t, c)
	emp := api.AddEmployee(domain.Employee{NationalityID: 1, FirstName: "Ana", LastName: "Diaz"})
	ben := api.AddBeneficiary(emp.ID, domain.Beneficiary{FirstName: "Luis", LastName: "Diaz"})

	tests := []struct {
		name    string
		pattern string
		call    func() error
	}{
		{"create employee", "POST /employee", func() error {
			_, err := c.CreateEmployee(ctx, domain.Employee{FirstName: "Eva"})
			return err
		}},
		{"update employee", "PUT /employee/{id}", func() error {
			_, err := c.UpdateEmployee(ctx, emp.ID, emp)
			return err
		}},
		{"create beneficiary", "POST /employee/{id}/beneficiary", func() error {
			_, err := c.CreateBeneficiary(ctx, emp.ID, domain.Beneficiary{FirstName: "Sol"})
			return err
		}},
		{"update beneficiary", "PUT /employee/{id}/beneficiary/{bid}", func() error {
			_, err := c.UpdateBeneficiary(ctx, emp.ID, ben.ID, ben)
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, body := range []string{"", "{}"} {
				api.Fail(tt.pattern, http.StatusOK, body)
				err := tt.call()
				require.Error(t, err, "body %q", body)
				assert.Contains(t, err.Error(), "response carries no id")
			}
			api.Heal(tt.pattern)
		})
	}
}
