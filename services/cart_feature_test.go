package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"cart-shop/models"
	"cart-shop/repositories"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type cartFeatureContext struct {
	ctx      context.Context
	store    *repositories.MemoryStore
	carts    *CartService
	products map[string]*models.Product
	customer int
	other    int
	removed  int
	err      error
}

func (c *cartFeatureContext) reset() {
	c.ctx = context.Background()
	c.store = repositories.NewMemoryStore()
	c.carts = NewCartService(c.store, nil, nil, zap.NewNop())
	c.products = map[string]*models.Product{}
	c.customer, c.other, c.removed = 0, 0, 0
	c.err = nil
}

func (c *cartFeatureContext) aShippingOption(label, cost string, region int) error {
	r := models.Region(region)
	return c.store.Shipping().Create(c.ctx, &models.ShippingOption{
		Number: region, Label: label, Cost: decimal.RequireFromString(cost), Region: &r,
	})
}

func (c *cartFeatureContext) aProduct(name, price string, stock int) error {
	p := &models.Product{Name: name, Price: decimal.RequireFromString(price), Stock: stock}
	if err := c.store.Products().Create(c.ctx, p); err != nil {
		return err
	}
	c.products[name] = p
	return nil
}

func (c *cartFeatureContext) register(email, state string) (int, error) {
	user := &models.User{Username: email, Email: email, Password: "x", Role: models.RoleCustomer}
	if err := c.store.Users().Create(c.ctx, user); err != nil {
		return 0, err
	}
	if err := c.store.Profiles().Create(c.ctx, &models.Profile{UserID: user.ID}); err != nil {
		return 0, err
	}
	address := &models.Address{UserID: user.ID, Street: "Rua", Number: "1", District: "Centro", City: "Cidade", State: state, ZipCode: "00000-000"}
	return user.ID, c.store.Profiles().CreateAddress(c.ctx, address)
}

func (c *cartFeatureContext) aCustomerLivingIn(state string) error {
	id, err := c.register("customer@example.com", state)
	c.customer = id
	return err
}

func (c *cartFeatureContext) theCustomerHasAnActiveCart() error {
	_, err := c.carts.Create(c.ctx, c.customer)
	return err
}

func (c *cartFeatureContext) anotherCustomerWithCart(state string) error {
	id, err := c.register("other@example.com", state)
	if err != nil {
		return err
	}
	c.other = id
	_, err = c.carts.Create(c.ctx, id)
	return err
}

func (c *cartFeatureContext) add(customerID, quantity int, name string) error {
	p, ok := c.products[name]
	if !ok {
		return fmt.Errorf("unknown product %q", name)
	}
	_, c.err = c.carts.AddItem(c.ctx, customerID, p.UUID.String(), quantity)
	return nil
}

func (c *cartFeatureContext) theCustomerAdds(quantity int, name string) error {
	return c.add(c.customer, quantity, name)
}

func (c *cartFeatureContext) thatCustomerAdds(quantity int, name string) error {
	return c.add(c.other, quantity, name)
}

func (c *cartFeatureContext) theCustomerRemoves(quantity int, name string) error {
	var result *RemoveItemResult
	result, c.err = c.carts.RemoveItem(c.ctx, c.customer, name, quantity)
	if result != nil {
		c.removed = result.Removed
	}
	return nil
}

func (c *cartFeatureContext) theCustomerFinalizesTheCart() error {
	_, c.err = c.carts.UpdateStatus(c.ctx, c.customer, models.CartFinalized)
	return nil
}

func (c *cartFeatureContext) theRequestSucceeds() error {
	if c.err != nil {
		return fmt.Errorf("expected success, got %v", c.err)
	}
	return nil
}

func (c *cartFeatureContext) theRequestFailsWith(message string) error {
	if c.err == nil {
		return fmt.Errorf("expected error containing %q", message)
	}
	if !strings.Contains(c.err.Error(), message) {
		return fmt.Errorf("expected error containing %q, got %v", message, c.err)
	}
	return nil
}

func (c *cartFeatureContext) productHasStock(name string, stock int) error {
	p, err := c.store.Products().FindByUUID(c.ctx, c.products[name].UUID)
	if err != nil {
		return err
	}
	if p.Stock != stock {
		return fmt.Errorf("expected %d units of %s in stock, got %d", stock, name, p.Stock)
	}
	return nil
}

func (c *cartFeatureContext) theCartHolds(quantity int, name string) error {
	cart, err := c.store.Carts().FindActive(c.ctx, c.customer)
	if err != nil {
		return err
	}
	line := cart.Items[c.products[name].UUID.String()]
	if line.Quantity != quantity {
		return fmt.Errorf("expected %d units of %s in the cart, got %d", quantity, name, line.Quantity)
	}
	return nil
}

func (c *cartFeatureContext) theCartIsEmpty() error {
	cart, err := c.store.Carts().FindActive(c.ctx, c.customer)
	if err != nil {
		return err
	}
	if len(cart.Items) != 0 {
		return fmt.Errorf("expected an empty cart, got %d lines", len(cart.Items))
	}
	return nil
}

func (c *cartFeatureContext) theCartTotalIs(total string) error {
	cart, err := c.store.Carts().FindActive(c.ctx, c.customer)
	if err != nil {
		return err
	}
	if got := cart.Total.StringFixed(2); got != total {
		return fmt.Errorf("expected total %s, got %s", total, got)
	}
	return nil
}

func (c *cartFeatureContext) unitsWereRemoved(n int) error {
	if c.removed != n {
		return fmt.Errorf("expected %d units removed, got %d", n, c.removed)
	}
	return nil
}

func (c *cartFeatureContext) finalizedCarts(n int) error {
	carts, err := c.carts.ListFinalized(c.ctx, c.customer)
	if err != nil {
		return err
	}
	if len(carts) != n {
		return fmt.Errorf("expected %d finalized carts, got %d", n, len(carts))
	}
	return nil
}

func (c *cartFeatureContext) noActiveCart() error {
	carts, err := c.carts.ListActive(c.ctx, c.customer)
	if err != nil {
		return err
	}
	if len(carts) != 0 {
		return fmt.Errorf("expected no active cart, got %d", len(carts))
	}
	return nil
}

func InitializeCartScenario(sc *godog.ScenarioContext) {
	c := &cartFeatureContext{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		c.reset()
		return ctx, nil
	})

	sc.Step(`^a shipping option "([^"]*)" costing (\d+\.\d+) for region (\d+)$`, c.aShippingOption)
	sc.Step(`^a product "([^"]*)" priced (\d+\.\d+) with (\d+) units in stock$`, c.aProduct)
	sc.Step(`^a customer living in "([^"]*)"$`, c.aCustomerLivingIn)
	sc.Step(`^the customer has an active cart$`, c.theCustomerHasAnActiveCart)
	sc.Step(`^another customer living in "([^"]*)" with an active cart$`, c.anotherCustomerWithCart)
	sc.Step(`^the customer adds (\d+) units of "([^"]*)"$`, c.theCustomerAdds)
	sc.Step(`^that customer adds (\d+) units of "([^"]*)"$`, c.thatCustomerAdds)
	sc.Step(`^the customer removes (\d+) units of "([^"]*)"$`, c.theCustomerRemoves)
	sc.Step(`^the customer finalizes the cart$`, c.theCustomerFinalizesTheCart)
	sc.Step(`^the request succeeds$`, c.theRequestSucceeds)
	sc.Step(`^the request fails with "([^"]*)"$`, c.theRequestFailsWith)
	sc.Step(`^"([^"]*)" has (\d+) units in stock$`, c.productHasStock)
	sc.Step(`^the cart holds (\d+) units of "([^"]*)"$`, c.theCartHolds)
	sc.Step(`^the cart is empty$`, c.theCartIsEmpty)
	sc.Step(`^the cart total is (\d+\.\d+)$`, c.theCartTotalIs)
	sc.Step(`^(\d+) units were removed$`, c.unitsWereRemoved)
	sc.Step(`^the customer has (\d+) finalized cart$`, c.finalizedCarts)
	sc.Step(`^the customer has no active cart$`, c.noActiveCart)
}

func TestCartFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeCartScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/cart.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
