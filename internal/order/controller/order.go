package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inErrors "github.com/prawira/storefront/internal/errors"
	inHttp "github.com/prawira/storefront/internal/http"
	"github.com/prawira/storefront/internal/log"
	"github.com/prawira/storefront/internal/order/request"
	"github.com/prawira/storefront/internal/order/response"
	"github.com/prawira/storefront/internal/order/service"
	inOtel "github.com/prawira/storefront/internal/otel"
	"github.com/prawira/storefront/internal/session"
)

type OrderController struct {
	service service.OrderService
}

func AttachOrderController(router *mux.Router, service service.OrderService) {
	controller := OrderController{service: service}

	router.HandleFunc("/checkout", controller.Checkout).Methods(http.MethodPost)
	router.HandleFunc("/orders", controller.FindOrders).Methods(http.MethodGet)
	router.HandleFunc("/orders/{orderNumber}", controller.FindOrderByNumber).
		Methods(http.MethodGet)
}

func (t OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "OrderController Checkout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController Checkout").
		Logger()

	sess, ok := session.FromContext(c)
	if !ok || !sess.Authenticated() {
		logger.Info().Msg("checkout requires an authenticated session")
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusUnauthorized,
			"message":    "checkout requires an authenticated session",
		})
		return
	}
	logger = logger.With().
		Str(log.KeySessionID, sess.ID).
		Str(log.KeyUserID, sess.UserID.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody, err := decodeCheckout(r)
	if err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":            "failed",
			"statusCode":        http.StatusBadRequest,
			"message":           "checkout form is invalid",
			"validation_errors": validationErrors(err),
		})
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().Str(log.KeyProcess, "checking out").Logger()
	logger.Info().Msg("checking out")
	c = logger.WithContext(c)
	order, err := t.service.Checkout(c, sess, reqBody)
	if err != nil {
		err = fmt.Errorf("failed checking out with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusForCheckoutError(err),
			"message":    checkoutErrorMessage(err),
		})
		return
	}
	logger.Info().Msgf("checked out orderNumber=%s", order.OrderNumber)

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusCreated,
		"message":    fmt.Sprintf("successfully placed order orderNumber=%s", order.OrderNumber),
		"data": map[string]interface{}{
			"checkout": response.CheckoutResult{
				OrderNumber: order.OrderNumber,
				RedirectURL: fmt.Sprintf("/orders/%s", order.OrderNumber),
			},
			"order": order,
		},
	})
}

func (t OrderController) FindOrderByNumber(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "OrderController FindOrderByNumber")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController FindOrderByNumber").
		Logger()

	orderNumber := mux.Vars(r)["orderNumber"]
	logger = logger.With().Str(log.KeyOrderNumber, orderNumber).Logger()

	logger = logger.With().Str(log.KeyProcess, "finding order").Logger()
	logger.Info().Msgf("finding orderNumber=%s", orderNumber)
	c = logger.WithContext(c)
	order, err := t.service.FindOrderByNumber(c, orderNumber)
	if err != nil {
		err = fmt.Errorf("failed finding orderNumber=%s with error=%w", orderNumber, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		statusCode := http.StatusInternalServerError
		if errors.Is(err, inErrors.ErrOrderNotFound) {
			statusCode = http.StatusNotFound
		}
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCode,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msgf("found orderNumber=%s", orderNumber)

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("orderNumber=%s found", orderNumber),
		"data": map[string]interface{}{
			"order": order,
		},
	})
}

func (t OrderController) FindOrders(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "OrderController FindOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController FindOrders").
		Logger()

	sess, ok := session.FromContext(c)
	if !ok || !sess.Authenticated() {
		logger.Info().Msg("order history requires an authenticated session")
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusUnauthorized,
			"message":    "order history requires an authenticated session",
		})
		return
	}
	logger = logger.With().Str(log.KeyUserID, sess.UserID.String()).Logger()

	logger = logger.With().Str(log.KeyProcess, "finding orders").Logger()
	logger.Info().Msg("finding orders")
	c = logger.WithContext(c)
	orders, err := t.service.FindOrdersByUserId(c, *sess.UserID)
	if err != nil {
		err = fmt.Errorf("failed finding orders with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msgf("found %d orders", len(orders))

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "found orders",
		"data": map[string]interface{}{
			"orders": orders,
		},
	})
}

func decodeCheckout(r *http.Request) (request.Checkout, error) {
	reqBody := request.Checkout{}
	if strings.Contains(r.Header.Get(inHttp.HeaderContentType), "application/json") {
		err := json.NewDecoder(r.Body).Decode(&reqBody)
		if err != nil {
			return request.Checkout{}, err
		}
		return reqBody, nil
	}

	err := r.ParseForm()
	if err != nil {
		return request.Checkout{}, err
	}
	reqBody.ShippingName = r.PostFormValue("shipping_name")
	reqBody.ShippingEmail = r.PostFormValue("shipping_email")
	reqBody.ShippingAddress = r.PostFormValue("shipping_address")
	reqBody.ShippingCity = r.PostFormValue("shipping_city")
	reqBody.ShippingPostalCode = r.PostFormValue("shipping_postal_code")
	reqBody.ShippingCountry = r.PostFormValue("shipping_country")
	reqBody.BillingAddress = r.PostFormValue("billing_address")
	reqBody.BillingCity = r.PostFormValue("billing_city")
	reqBody.BillingPostalCode = r.PostFormValue("billing_postal_code")
	reqBody.BillingCountry = r.PostFormValue("billing_country")
	reqBody.PaymentMethod = r.PostFormValue("payment_method")
	reqBody.CardNumber = r.PostFormValue("card_number")
	reqBody.CardExpiry = r.PostFormValue("card_expiry")
	reqBody.CardCvc = r.PostFormValue("card_cvc")
	reqBody.ShippingMethod = r.PostFormValue("shipping_method")
	reqBody.Notes = r.PostFormValue("notes")
	return reqBody, nil
}

// validationErrors flattens validator failures into a field to message map so
// the storefront can render them next to each input.
func validationErrors(err error) map[string]string {
	fields := map[string]string{}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fields
	}
	for _, fieldErr := range validationErrs {
		fields[fieldErr.Field()] = fmt.Sprintf(
			"failed validation on tag=%s",
			fieldErr.Tag(),
		)
	}
	return fields
}

func statusForCheckoutError(err error) int {
	switch {
	case errors.Is(err, inErrors.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, inErrors.ErrProductUnavailable),
		errors.Is(err, inErrors.ErrEmptyCart):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// checkoutErrorMessage surfaces stock and availability failures verbatim and
// hides persistence detail behind a generic retry message.
func checkoutErrorMessage(err error) string {
	var stockErr inErrors.InsufficientStock
	if errors.As(err, &stockErr) {
		if stockErr.Available > 0 {
			return fmt.Sprintf(
				"only %d left in stock for product=%s",
				stockErr.Available,
				stockErr.ProductID,
			)
		}
		return fmt.Sprintf("not enough stock for product=%s", stockErr.ProductID)
	}
	if errors.Is(err, inErrors.ErrProductUnavailable) || errors.Is(err, inErrors.ErrEmptyCart) {
		return err.Error()
	}
	return "could not place the order, please try again"
}
