// internal/handlers/items_handler_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bricolage/catalog-be/internal/core/domain"
	"github.com/bricolage/catalog-be/internal/core/ports"
	"github.com/bricolage/catalog-be/internal/handlers"
	"github.com/bricolage/catalog-be/test/helpers"
	"github.com/bricolage/catalog-be/test/mocks"
)

func TestItemsHandler_ListItems(t *testing.T) {
	items := helpers.CreateTestItems(5)

	tests := []struct {
		name           string
		url            string
		setupMocks     func(*mocks.MockItemService)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name: "defaults_when_no_query_parameters",
			url:  "/api/items",
			setupMocks: func(m *mocks.MockItemService) {
				m.EXPECT().
					List(gomock.Any(), ports.ListParams{Query: "", Page: 1, Limit: 10, Sort: domain.SortDefault}).
					Return(&ports.ListResult{
						Items:      items,
						Pagination: domain.NewPagination(1, 10, 5),
					}, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var response ports.ListResult
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Len(t, response.Items, 5)
				assert.Equal(t, 1, response.Pagination.Page)
				assert.False(t, response.Pagination.HasNext)
			},
		},
		{
			name: "passes_through_all_query_parameters",
			url:  "/api/items?q=desk&page=2&limit=2&sort=price-asc",
			setupMocks: func(m *mocks.MockItemService) {
				m.EXPECT().
					List(gomock.Any(), ports.ListParams{Query: "desk", Page: 2, Limit: 2, Sort: domain.SortPriceAsc}).
					Return(&ports.ListResult{
						Items:      items[2:4],
						Pagination: domain.NewPagination(2, 2, 5),
					}, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var response ports.ListResult
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Len(t, response.Items, 2)
				assert.True(t, response.Pagination.HasNext)
				assert.True(t, response.Pagination.HasPrev)
			},
		},
		{
			name: "non_numeric_page_and_limit_fall_back_to_defaults",
			url:  "/api/items?page=abc&limit=xyz",
			setupMocks: func(m *mocks.MockItemService) {
				m.EXPECT().
					List(gomock.Any(), ports.ListParams{Query: "", Page: 1, Limit: 10, Sort: domain.SortDefault}).
					Return(&ports.ListResult{
						Items:      items,
						Pagination: domain.NewPagination(1, 10, 5),
					}, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody:   func(t *testing.T, body []byte) {},
		},
		{
			name: "negative_page_passes_through_unvalidated",
			url:  "/api/items?page=-3",
			setupMocks: func(m *mocks.MockItemService) {
				m.EXPECT().
					List(gomock.Any(), ports.ListParams{Query: "", Page: -3, Limit: 10, Sort: domain.SortDefault}).
					Return(&ports.ListResult{
						Items:      []domain.Item{},
						Pagination: domain.NewPagination(-3, 10, 5),
					}, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody:   func(t *testing.T, body []byte) {},
		},
		{
			name: "service_failure_maps_to_500",
			url:  "/api/items",
			setupMocks: func(m *mocks.MockItemService) {
				m.EXPECT().
					List(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "Failed to list items", response["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := mocks.NewMockItemService(ctrl)
			tt.setupMocks(service)

			handler := handlers.NewItemsHandler(service, helpers.TestLogger())

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rec := httptest.NewRecorder()

			handler.ListItems(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			tt.validateBody(t, rec.Body.Bytes())
		})
	}
}

func TestItemsHandler_GetItem(t *testing.T) {
	testItem := helpers.CreateTestItem()

	tests := []struct {
		name           string
		id             string
		setupMocks     func(*mocks.MockItemService)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name: "successfully_retrieves_item",
			id:   fmt.Sprintf("%d", testItem.ID),
			setupMocks: func(m *mocks.MockItemService) {
				m.EXPECT().
					GetByID(gomock.Any(), testItem.ID).
					Return(testItem, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var response domain.Item
				require.NoError(t, json.Unmarshal(body, &response))
				helpers.CompareItems(t, testItem, &response)
			},
		},
		{
			name:           "non_numeric_id",
			id:             "not-a-number",
			setupMocks:     func(m *mocks.MockItemService) {},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "Invalid ID parameter", response["error"])
			},
		},
		{
			name: "item_not_found",
			id:   "12345",
			setupMocks: func(m *mocks.MockItemService) {
				m.EXPECT().
					GetByID(gomock.Any(), int64(12345)).
					Return(nil, fmt.Errorf("%w: 12345", domain.ErrItemNotFound))
			},
			expectedStatus: http.StatusNotFound,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "Item not found", response["error"])
			},
		},
		{
			name: "store_failure_maps_to_500",
			id:   "12345",
			setupMocks: func(m *mocks.MockItemService) {
				m.EXPECT().
					GetByID(gomock.Any(), int64(12345)).
					Return(nil, domain.ErrStoreIO)
			},
			expectedStatus: http.StatusInternalServerError,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "Failed to retrieve item", response["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := mocks.NewMockItemService(ctrl)
			tt.setupMocks(service)

			handler := handlers.NewItemsHandler(service, helpers.TestLogger())

			req := httptest.NewRequest(http.MethodGet, "/api/items/"+tt.id, nil)
			req.SetPathValue("id", tt.id)
			rec := httptest.NewRecorder()

			handler.GetItem(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			tt.validateBody(t, rec.Body.Bytes())
		})
	}
}

func TestItemsHandler_CreateItem(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(*mocks.MockItemService)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "successfully_creates_item",
			body: `{"name":"Espresso Machine","category":"Appliances","price":549}`,
			setupMocks: func(m *mocks.MockItemService) {
				m.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ any, item *domain.Item) (*domain.Item, error) {
						assert.Equal(t, "Espresso Machine", item.Name)
						assert.Equal(t, "Appliances", item.Category)
						assert.True(t, item.Price.Equal(decimal.NewFromInt(549)))
						item.ID = 1718000000000
						return item, nil
					})
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "malformed_json",
			body:           `{"name": "Broken`,
			setupMocks:     func(m *mocks.MockItemService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid request body",
		},
		{
			name:           "missing_name",
			body:           `{"category":"Appliances","price":549}`,
			setupMocks:     func(m *mocks.MockItemService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "name is required",
		},
		{
			name:           "missing_category",
			body:           `{"name":"Espresso Machine","price":549}`,
			setupMocks:     func(m *mocks.MockItemService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "category is required",
		},
		{
			name:           "price_as_string",
			body:           `{"name":"Espresso Machine","category":"Appliances","price":"549"}`,
			setupMocks:     func(m *mocks.MockItemService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "price must be a number",
		},
		{
			name:           "missing_price",
			body:           `{"name":"Espresso Machine","category":"Appliances"}`,
			setupMocks:     func(m *mocks.MockItemService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "price must be a number",
		},
		{
			name:           "negative_price",
			body:           `{"name":"Espresso Machine","category":"Appliances","price":-1}`,
			setupMocks:     func(m *mocks.MockItemService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "price cannot be negative",
		},
		{
			name: "service_failure_maps_to_500",
			body: `{"name":"Espresso Machine","category":"Appliances","price":549}`,
			setupMocks: func(m *mocks.MockItemService) {
				m.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(nil, domain.ErrStoreIO)
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Failed to create item",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := mocks.NewMockItemService(ctrl)
			tt.setupMocks(service)

			handler := handlers.NewItemsHandler(service, helpers.TestLogger())

			req := httptest.NewRequest(http.MethodPost, "/api/items", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			handler.CreateItem(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedError != "" {
				var response map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
				assert.Equal(t, tt.expectedError, response["error"])
				return
			}

			var created domain.Item
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
			assert.NotZero(t, created.ID)
		})
	}
}
