package payment_gateway

import (
	"context"
	"crypto/md5"
	"fmt"
	"sort"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"mediline-service/internal/app/config"
	"mediline-service/internal/app/contracts"
	"mediline-service/internal/app/models"
	"mediline-service/internal/pkg/constvars"
	"mediline-service/internal/pkg/dto/responses"
	"mediline-service/internal/pkg/exceptions"
)

type wechatService struct {
	AppID     string
	MchID     string
	APIKey    string
	NotifyURL string
	PayURL    string
}

func NewWechatService(internalConfig *config.InternalConfig) contracts.PaymentGatewayService {
	return &wechatService{
		AppID:     internalConfig.Wechat.AppID,
		MchID:     internalConfig.Wechat.MchID,
		APIKey:    internalConfig.Wechat.APIKey,
		NotifyURL: internalConfig.Wechat.NotifyURL,
		PayURL:    internalConfig.Wechat.PayURL,
	}
}

func (s *wechatService) Name() string {
	return constvars.GatewayWechat
}

// BuildPaymentRequest assembles and signs the unified-order parameter set.
// Amounts go over the wire in fen, so the yuan amount is scaled by 100.
func (s *wechatService) BuildPaymentRequest(ctx context.Context, order *models.Order, transaction *models.Transaction, returnURL string) (*responses.PaymentInstructions, []byte, error) {
	params := map[string]string{
		"appid":        s.AppID,
		"mch_id":       s.MchID,
		"nonce_str":    strings.ReplaceAll(uuid.NewString(), "-", ""),
		"body":         order.Description,
		"out_trade_no": order.OrderNo,
		"total_fee":    transaction.Amount.Mul(decimal.NewFromInt(100)).String(),
		"notify_url":   s.NotifyURL,
		"trade_type":   "NATIVE",
		"time_expire":  order.ExpireTime.Format("20060102150405"),
	}
	params["sign"] = s.sign(params)

	requestData, err := json.Marshal(params)
	if err != nil {
		return nil, nil, exceptions.ErrGatewayBuildPaymentRequest(err, s.Name())
	}

	prepayData := make(map[string]any, len(params)+1)
	for key, value := range params {
		prepayData[key] = value
	}
	prepayData["pay_url"] = s.PayURL

	instructions := &responses.PaymentInstructions{
		OrderID:       order.ID,
		OrderNo:       order.OrderNo,
		PaymentMethod: string(models.PaymentMethodWechat),
		PrepayData:    prepayData,
	}
	return instructions, requestData, nil
}

func (s *wechatService) BuildRefundRequest(ctx context.Context, order *models.Order, refund *models.RefundRequest) (string, []byte, error) {
	params := map[string]string{
		"appid":         s.AppID,
		"mch_id":        s.MchID,
		"nonce_str":     strings.ReplaceAll(uuid.NewString(), "-", ""),
		"out_trade_no":  order.OrderNo,
		"out_refund_no": refund.RefundNo,
		"total_fee":     order.Amount.Mul(decimal.NewFromInt(100)).String(),
		"refund_fee":    refund.Amount.Mul(decimal.NewFromInt(100)).String(),
		"notify_url":    s.NotifyURL,
	}
	params["sign"] = s.sign(params)

	requestData, err := json.Marshal(params)
	if err != nil {
		return "", nil, exceptions.ErrGatewayBuildRefundRequest(err, s.Name())
	}

	externalRef := fmt.Sprintf("wx_refund_%s", refund.RefundNo)
	return externalRef, requestData, nil
}

// ParseCallback verifies the MD5 signature before trusting anything in the
// payload. Refund notifications carry out_refund_no, payment ones do not.
func (s *wechatService) ParseCallback(ctx context.Context, payload []byte) (*contracts.PaymentEvent, error) {
	var params map[string]string
	if err := json.Unmarshal(payload, &params); err != nil {
		return nil, exceptions.ErrGatewayParseCallback(err, s.Name())
	}

	receivedSign := params["sign"]
	delete(params, "sign")
	if receivedSign == "" || receivedSign != s.sign(params) {
		return nil, exceptions.ErrGatewayParseCallback(fmt.Errorf("invalid callback signature"), s.Name())
	}

	amountFen, err := decimal.NewFromString(params["total_fee"])
	if err != nil {
		return nil, exceptions.ErrGatewayParseCallback(fmt.Errorf("invalid total_fee: %s", params["total_fee"]), s.Name())
	}

	event := &contracts.PaymentEvent{
		Gateway:     s.Name(),
		OrderNo:     params["out_trade_no"],
		RefundNo:    params["out_refund_no"],
		ExternalRef: params["transaction_id"],
		Amount:      amountFen.Div(decimal.NewFromInt(100)),
		OccurredAt:  time.Now(),
		Raw:         payload,
	}

	if params["return_code"] == constvars.WechatCallbackSuccess &&
		params["result_code"] == constvars.WechatCallbackSuccess {
		event.Status = contracts.PaymentEventSuccess
	} else {
		event.Status = contracts.PaymentEventFailed
		event.ErrorCode = params["err_code"]
		event.ErrorMsg = params["err_code_des"]
	}

	if timeEnd, err := time.Parse("20060102150405", params["time_end"]); err == nil {
		event.OccurredAt = timeEnd
	}

	return event, nil
}

func (s *wechatService) SuccessAck() string {
	return fmt.Sprintf(`{"return_code":"%s"}`, constvars.WechatCallbackSuccess)
}

func (s *wechatService) FailureAck() string {
	return fmt.Sprintf(`{"return_code":"%s"}`, constvars.WechatCallbackFail)
}

// sign hashes the sorted key=value pairs with the API key appended, the
// scheme mandated by the v2 merchant API.
func (s *wechatService) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		if params[key] == "" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for _, key := range keys {
		builder.WriteString(key)
		builder.WriteString("=")
		builder.WriteString(params[key])
		builder.WriteString("&")
	}
	builder.WriteString("key=")
	builder.WriteString(s.APIKey)

	return strings.ToUpper(fmt.Sprintf("%x", md5.Sum([]byte(builder.String()))))
}
