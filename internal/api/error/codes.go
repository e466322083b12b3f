package error

import "net/http"

type ErrorCode string

const (
	UnknownError         ErrorCode = "unknown_error"
	InternalServerError  ErrorCode = "internal_server_error"
	BadRequest           ErrorCode = "bad_request"
	UnprocessibleEntity  ErrorCode = "unprocessible_entity"
	InvalidAccessToken   ErrorCode = "invalid_access_token"
	ExpiredAccessToken   ErrorCode = "expired_access_token"
	RecipeNotFound       ErrorCode = "recipe_not_found"
	MealPlanNotFound     ErrorCode = "meal_plan_not_found"
	ShoppingItemNotFound ErrorCode = "shopping_item_not_found"
)

var errorCodeToStatusCode = map[ErrorCode]int{
	UnknownError:         0, // No error code - unknown
	InternalServerError:  http.StatusInternalServerError,
	BadRequest:           http.StatusBadRequest,
	UnprocessibleEntity:  http.StatusUnprocessableEntity,
	InvalidAccessToken:   http.StatusUnauthorized,
	ExpiredAccessToken:   http.StatusUnauthorized,
	RecipeNotFound:       http.StatusNotFound,
	MealPlanNotFound:     http.StatusNotFound,
	ShoppingItemNotFound: http.StatusNotFound,
}

func (ec ErrorCode) StatusCode() int {
	return errorCodeToStatusCode[ec]
}

func (ec ErrorCode) String() string {
	return string(ec)
}
