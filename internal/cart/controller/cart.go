package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/prawira/storefront/internal/cart/request"
	"github.com/prawira/storefront/internal/cart/response"
	"github.com/prawira/storefront/internal/cart/service"
	"github.com/prawira/storefront/internal/cart/store"
	inErrors "github.com/prawira/storefront/internal/errors"
	inHttp "github.com/prawira/storefront/internal/http"
	"github.com/prawira/storefront/internal/log"
	inOtel "github.com/prawira/storefront/internal/otel"
	"github.com/prawira/storefront/internal/session"
)

type CartController struct {
	service service.CartService
}

func AttachCartController(router *mux.Router, service service.CartService) {
	controller := CartController{service: service}

	router.HandleFunc("/cart", controller.CartAction).Methods(http.MethodPost)
	router.HandleFunc("/cart", controller.FindCart).Methods(http.MethodGet)
}

func (t CartController) CartAction(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "CartController CartAction")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController CartAction").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody, err := decodeCartAction(r)
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
	logger = logger.With().Str(log.KeyCartAction, reqBody.Action).Logger()
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("validated request body")

	sess, ok := session.FromContext(c)
	if !ok {
		err = inErrors.ErrSessionNotFound
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(log.KeySessionID, sess.ID).Logger()

	var productID uuid.UUID
	if reqBody.ProductID != "" {
		productID, err = uuid.Parse(reqBody.ProductID)
		if err != nil {
			err = fmt.Errorf("failed validating productId=%s with error=%w", reqBody.ProductID, err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
				"status":     "failed",
				"statusCode": http.StatusBadRequest,
				"message":    err.Error(),
			})
			return
		}
	}

	logger = logger.With().Str(log.KeyProcess, "applying cart action").Logger()
	logger.Info().Msgf("applying cart action=%s", reqBody.Action)
	c = logger.WithContext(c)

	var cart store.Cart
	switch reqBody.Action {
	case request.ActionAdd:
		cart, err = t.service.Add(c, sess, productID, reqBody.Quantity)
	case request.ActionUpdate:
		cart, err = t.service.Update(c, sess, productID, reqBody.Quantity)
	case request.ActionRemove:
		cart, err = t.service.Remove(c, sess, productID)
	case request.ActionClear:
		cart, err = t.service.Clear(c, sess)
	case request.ActionGet:
		cart, err = t.service.Get(c, sess)
	}
	if err != nil {
		err = fmt.Errorf("failed applying cart action=%s with error=%w", reqBody.Action, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusForCartError(err),
			"message":    cartErrorMessage(err),
		})
		return
	}
	logger.Info().Msgf("applied cart action=%s", reqBody.Action)

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("successfully applied cart action=%s", reqBody.Action),
		"data":       cartActionData(reqBody, cart),
	})
}

func (t CartController) FindCart(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "CartController FindCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController FindCart").
		Logger()

	sess, ok := session.FromContext(c)
	if !ok {
		err := inErrors.ErrSessionNotFound
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(log.KeySessionID, sess.ID).Logger()

	logger = logger.With().Str(log.KeyProcess, "finding cart").Logger()
	logger.Info().Msg("finding cart")
	c = logger.WithContext(c)
	cart, err := t.service.Get(c, sess)
	if err != nil {
		err = fmt.Errorf("failed finding cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("found cart")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "found cart",
		"data": map[string]interface{}{
			"cart": response.FromCart(cart),
		},
	})
}

// decodeCartAction accepts JSON and classic form submissions on the same
// endpoint.
func decodeCartAction(r *http.Request) (request.CartAction, error) {
	reqBody := request.CartAction{}
	if strings.Contains(r.Header.Get(inHttp.HeaderContentType), "application/json") {
		err := json.NewDecoder(r.Body).Decode(&reqBody)
		if err != nil {
			return request.CartAction{}, err
		}
		return reqBody, nil
	}

	err := r.ParseForm()
	if err != nil {
		return request.CartAction{}, err
	}
	reqBody.Action = r.PostFormValue("action")
	reqBody.ProductID = r.PostFormValue("product_id")
	if raw := r.PostFormValue("quantity"); raw != "" {
		quantity, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return request.CartAction{}, fmt.Errorf("failed parsing quantity=%s with error=%w", raw, err)
		}
		reqBody.Quantity = int32(quantity)
	}
	return reqBody, nil
}

func cartActionData(reqBody request.CartAction, cart store.Cart) map[string]interface{} {
	switch reqBody.Action {
	case request.ActionUpdate:
		itemTotal := response.ItemMutation{CartCount: cart.Count, CartTotal: cart.Total}
		if item, ok := cart.Item(uuid.MustParse(reqBody.ProductID)); ok {
			itemTotal.ItemTotal = item.LineTotal()
		}
		return map[string]interface{}{"cart": itemTotal}
	case request.ActionGet:
		return map[string]interface{}{"cart": response.FromCart(cart)}
	default:
		return map[string]interface{}{
			"cart": response.Mutation{CartCount: cart.Count, CartTotal: cart.Total},
		}
	}
}

func statusForCartError(err error) int {
	switch {
	case errors.Is(err, inErrors.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, inErrors.ErrCartItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, inErrors.ErrProductUnavailable),
		errors.Is(err, inErrors.ErrInvalidQuantity):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// cartErrorMessage keeps stock rejections structured enough for a storefront
// to render the remaining quantity.
func cartErrorMessage(err error) string {
	var stockErr inErrors.InsufficientStock
	if errors.As(err, &stockErr) {
		return fmt.Sprintf(
			"only %d left in stock for product=%s",
			stockErr.Available,
			stockErr.ProductID,
		)
	}
	return err.Error()
}
