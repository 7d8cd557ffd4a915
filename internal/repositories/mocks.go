package repository

import (
	"context"

	"github.com/epichardware/storefront/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Hand-maintained testify mocks for the repository interfaces, consumed
// by the service unit tests.

type MockCartRepository struct {
	mock.Mock
}

func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{}
}

func (m *MockCartRepository) CreateCart(ctx context.Context, cart *models.Cart) error {
	args := m.Called(ctx, cart)

	return args.Error(0)
}

func (m *MockCartRepository) GetCartByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, int64, error) {
	args := m.Called(ctx, userID)

	var cart *models.Cart
	if args.Get(0) != nil {
		cart = args.Get(0).(*models.Cart)
	}

	return cart, args.Get(1).(int64), args.Error(2)
}

func (m *MockCartRepository) UpdateCartItems(ctx context.Context, cartID uuid.UUID, items []models.CartItem, version int64) error {
	args := m.Called(ctx, cartID, items, version)

	return args.Error(0)
}

func (m *MockCartRepository) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	args := m.Called(ctx, cartID)

	return args.Error(0)
}

type MockRelationRepository struct {
	mock.Mock
}

func NewMockRelationRepository() *MockRelationRepository {
	return &MockRelationRepository{}
}

func (m *MockRelationRepository) CreateRelation(ctx context.Context, relation *models.CategoryRelation) error {
	args := m.Called(ctx, relation)

	return args.Error(0)
}

func (m *MockRelationRepository) GetRelation(ctx context.Context, categoryID uuid.UUID) (*models.CategoryRelation, int64, error) {
	args := m.Called(ctx, categoryID)

	var relation *models.CategoryRelation
	if args.Get(0) != nil {
		relation = args.Get(0).(*models.CategoryRelation)
	}

	return relation, args.Get(1).(int64), args.Error(2)
}

func (m *MockRelationRepository) ListRelations(ctx context.Context) ([]models.CategoryRelation, error) {
	args := m.Called(ctx)

	var relations []models.CategoryRelation
	if args.Get(0) != nil {
		relations = args.Get(0).([]models.CategoryRelation)
	}

	return relations, args.Error(1)
}

func (m *MockRelationRepository) UpdateItems(ctx context.Context, categoryID uuid.UUID, items []uuid.UUID, version int64) error {
	args := m.Called(ctx, categoryID, items, version)

	return args.Error(0)
}

func (m *MockRelationRepository) DeleteRelation(ctx context.Context, categoryID uuid.UUID) error {
	args := m.Called(ctx, categoryID)

	return args.Error(0)
}

type MockProductRepository struct {
	mock.Mock
}

func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{}
}

func (m *MockProductRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)

	return args.Error(0)
}

func (m *MockProductRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)

	var product *models.Product
	if args.Get(0) != nil {
		product = args.Get(0).(*models.Product)
	}

	return product, args.Error(1)
}

func (m *MockProductRepository) ListProducts(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)

	var products []models.Product
	if args.Get(0) != nil {
		products = args.Get(0).([]models.Product)
	}

	return products, args.Error(1)
}

func (m *MockProductRepository) UpdateProduct(ctx context.Context, id uuid.UUID, patch map[string]any) error {
	args := m.Called(ctx, id, patch)

	return args.Error(0)
}

func (m *MockProductRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

type MockCategoryRepository struct {
	mock.Mock
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{}
}

func (m *MockCategoryRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)

	return args.Error(0)
}

func (m *MockCategoryRepository) GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	args := m.Called(ctx, id)

	var category *models.Category
	if args.Get(0) != nil {
		category = args.Get(0).(*models.Category)
	}

	return category, args.Error(1)
}

func (m *MockCategoryRepository) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	args := m.Called(ctx, name)

	var category *models.Category
	if args.Get(0) != nil {
		category = args.Get(0).(*models.Category)
	}

	return category, args.Error(1)
}

func (m *MockCategoryRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)

	var categories []models.Category
	if args.Get(0) != nil {
		categories = args.Get(0).([]models.Category)
	}

	return categories, args.Error(1)
}

func (m *MockCategoryRepository) UpdateCategory(ctx context.Context, id uuid.UUID, patch map[string]any) error {
	args := m.Called(ctx, id, patch)

	return args.Error(0)
}

func (m *MockCategoryRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

type MockOrderRepository struct {
	mock.Mock
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{}
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)

	return args.Error(0)
}

func (m *MockOrderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)

	var order *models.Order
	if args.Get(0) != nil {
		order = args.Get(0).(*models.Order)
	}

	return order, args.Error(1)
}

func (m *MockOrderRepository) ListOrders(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)

	var orders []models.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]models.Order)
	}

	return orders, args.Error(1)
}

func (m *MockOrderRepository) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	args := m.Called(ctx, userID)

	var orders []models.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]models.Order)
	}

	return orders, args.Error(1)
}

func (m *MockOrderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	args := m.Called(ctx, id, status)

	return args.Error(0)
}

func (m *MockOrderRepository) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

type MockFeedbackRepository struct {
	mock.Mock
}

func NewMockFeedbackRepository() *MockFeedbackRepository {
	return &MockFeedbackRepository{}
}

func (m *MockFeedbackRepository) CreateFeedback(ctx context.Context, feedback *models.Feedback) error {
	args := m.Called(ctx, feedback)

	return args.Error(0)
}

func (m *MockFeedbackRepository) ListFeedbacksByItem(ctx context.Context, itemID uuid.UUID) ([]models.Feedback, error) {
	args := m.Called(ctx, itemID)

	var feedbacks []models.Feedback
	if args.Get(0) != nil {
		feedbacks = args.Get(0).([]models.Feedback)
	}

	return feedbacks, args.Error(1)
}

func (m *MockFeedbackRepository) FindByItemAndUser(ctx context.Context, itemID, userID uuid.UUID) (*models.Feedback, error) {
	args := m.Called(ctx, itemID, userID)

	var feedback *models.Feedback
	if args.Get(0) != nil {
		feedback = args.Get(0).(*models.Feedback)
	}

	return feedback, args.Error(1)
}

func (m *MockFeedbackRepository) DeleteFeedback(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)

	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)

	var user *models.User
	if args.Get(0) != nil {
		user = args.Get(0).(*models.User)
	}

	return user, args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)

	var user *models.User
	if args.Get(0) != nil {
		user = args.Get(0).(*models.User)
	}

	return user, args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)

	var users []models.User
	if args.Get(0) != nil {
		users = args.Get(0).([]models.User)
	}

	return users, args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, id uuid.UUID, patch map[string]any) error {
	args := m.Called(ctx, id, patch)

	return args.Error(0)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

type MockRateLimitRepository struct {
	mock.Mock
}

func NewMockRateLimitRepository() *MockRateLimitRepository {
	return &MockRateLimitRepository{}
}

func (m *MockRateLimitRepository) CheckLoginRateLimit(ctx context.Context, email string) (bool, int, int, error) {
	args := m.Called(ctx, email)

	return args.Bool(0), args.Int(1), args.Int(2), args.Error(3)
}
