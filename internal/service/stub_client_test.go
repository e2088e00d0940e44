package service

import (
	"context"

	"washdesk/internal/models"
)

// stubClient records calls and returns canned data. Shared by the
// service tests in this package.
type stubClient struct {
	apps     []models.CarwashApplication
	profiles map[string]*models.PersonnelProfile
	session  *models.Session

	appsCalls    int
	assignCalls  int
	fetchCalls   int
	listCalls    int
	paymentCalls int
	loginCalls   int

	lastAssignment models.PersonnelAssignment
	lastPayment    *models.PaymentEntry

	appsErr    error
	assignErr  error
	fetchErr   error
	listErr    error
	paymentErr error
	loginErr   error
}

func (c *stubClient) ApprovedApplications(ctx context.Context) ([]models.CarwashApplication, error) {
	c.appsCalls++
	return c.apps, c.appsErr
}

func (c *stubClient) AssignPersonnel(ctx context.Context, assignment models.PersonnelAssignment) error {
	c.assignCalls++
	c.lastAssignment = assignment
	return c.assignErr
}

func (c *stubClient) Personnel(ctx context.Context, id string) (*models.PersonnelProfile, error) {
	c.fetchCalls++
	if c.fetchErr != nil {
		return nil, c.fetchErr
	}
	return c.profiles[id], nil
}

func (c *stubClient) ListPersonnel(ctx context.Context) ([]models.PersonnelProfile, error) {
	c.listCalls++
	if c.listErr != nil {
		return nil, c.listErr
	}
	var list []models.PersonnelProfile
	for _, p := range c.profiles {
		list = append(list, *p)
	}
	return list, nil
}

func (c *stubClient) CreatePayment(ctx context.Context, entry *models.PaymentEntry) error {
	c.paymentCalls++
	c.lastPayment = entry
	return c.paymentErr
}

func (c *stubClient) Login(ctx context.Context, email, password string) (*models.Session, error) {
	c.loginCalls++
	if c.loginErr != nil {
		return nil, c.loginErr
	}
	return c.session, nil
}
