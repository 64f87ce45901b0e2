package payment_gateway

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"mediline-service/internal/app/config"
	"mediline-service/internal/app/contracts"
	"mediline-service/internal/app/models"
	"mediline-service/internal/pkg/constvars"
	"mediline-service/internal/pkg/dto/responses"
	"mediline-service/internal/pkg/exceptions"
)

type alipayService struct {
	AppID      string
	NotifyURL  string
	GatewayURL string
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
}

func NewAlipayService(internalConfig *config.InternalConfig) (contracts.PaymentGatewayService, error) {
	service := &alipayService{
		AppID:      internalConfig.Alipay.AppID,
		NotifyURL:  internalConfig.Alipay.NotifyURL,
		GatewayURL: internalConfig.Alipay.GatewayURL,
	}

	if internalConfig.Alipay.PrivateKey != "" {
		privateKey, err := parsePrivateKey(internalConfig.Alipay.PrivateKey)
		if err != nil {
			return nil, err
		}
		service.privateKey = privateKey
	}
	if internalConfig.Alipay.PublicKey != "" {
		publicKey, err := parsePublicKey(internalConfig.Alipay.PublicKey)
		if err != nil {
			return nil, err
		}
		service.publicKey = publicKey
	}

	return service, nil
}

func (s *alipayService) Name() string {
	return constvars.GatewayAlipay
}

// BuildPaymentRequest signs a page-pay parameter set and returns the full
// gateway URL the client is redirected to.
func (s *alipayService) BuildPaymentRequest(ctx context.Context, order *models.Order, transaction *models.Transaction, returnURL string) (*responses.PaymentInstructions, []byte, error) {
	bizContent, err := json.Marshal(map[string]string{
		"out_trade_no": order.OrderNo,
		"total_amount": transaction.Amount.StringFixed(constvars.MoneyFractionDigits),
		"subject":      order.Description,
		"product_code": "FAST_INSTANT_TRADE_PAY",
	})
	if err != nil {
		return nil, nil, exceptions.ErrGatewayBuildPaymentRequest(err, s.Name())
	}

	params := map[string]string{
		"app_id":      s.AppID,
		"method":      "alipay.trade.page.pay",
		"charset":     "utf-8",
		"sign_type":   "RSA2",
		"timestamp":   time.Now().Format("2006-01-02 15:04:05"),
		"version":     "1.0",
		"notify_url":  s.NotifyURL,
		"return_url":  returnURL,
		"biz_content": string(bizContent),
	}

	signature, err := s.sign(params)
	if err != nil {
		return nil, nil, exceptions.ErrGatewayBuildPaymentRequest(err, s.Name())
	}
	params["sign"] = signature

	requestData, err := json.Marshal(params)
	if err != nil {
		return nil, nil, exceptions.ErrGatewayBuildPaymentRequest(err, s.Name())
	}

	values := url.Values{}
	for key, value := range params {
		values.Set(key, value)
	}

	instructions := &responses.PaymentInstructions{
		OrderID:       order.ID,
		OrderNo:       order.OrderNo,
		PaymentMethod: string(models.PaymentMethodAlipay),
		PaymentURL:    fmt.Sprintf("%s?%s", s.GatewayURL, values.Encode()),
	}
	return instructions, requestData, nil
}

func (s *alipayService) BuildRefundRequest(ctx context.Context, order *models.Order, refund *models.RefundRequest) (string, []byte, error) {
	bizContent, err := json.Marshal(map[string]string{
		"out_trade_no":   order.OrderNo,
		"refund_amount":  refund.Amount.StringFixed(constvars.MoneyFractionDigits),
		"refund_reason":  refund.Reason,
		"out_request_no": refund.RefundNo,
	})
	if err != nil {
		return "", nil, exceptions.ErrGatewayBuildRefundRequest(err, s.Name())
	}

	params := map[string]string{
		"app_id":      s.AppID,
		"method":      "alipay.trade.refund",
		"charset":     "utf-8",
		"sign_type":   "RSA2",
		"timestamp":   time.Now().Format("2006-01-02 15:04:05"),
		"version":     "1.0",
		"biz_content": string(bizContent),
	}

	signature, err := s.sign(params)
	if err != nil {
		return "", nil, exceptions.ErrGatewayBuildRefundRequest(err, s.Name())
	}
	params["sign"] = signature

	requestData, err := json.Marshal(params)
	if err != nil {
		return "", nil, exceptions.ErrGatewayBuildRefundRequest(err, s.Name())
	}

	externalRef := fmt.Sprintf("ali_refund_%s", refund.RefundNo)
	return externalRef, requestData, nil
}

// ParseCallback verifies the RSA2 signature with the provider's public key.
// Refund notifications carry out_request_no, payment ones do not.
func (s *alipayService) ParseCallback(ctx context.Context, payload []byte) (*contracts.PaymentEvent, error) {
	var params map[string]string
	if err := json.Unmarshal(payload, &params); err != nil {
		return nil, exceptions.ErrGatewayParseCallback(err, s.Name())
	}

	receivedSign := params["sign"]
	delete(params, "sign")
	delete(params, "sign_type")
	if err := s.verify(params, receivedSign); err != nil {
		return nil, exceptions.ErrGatewayParseCallback(err, s.Name())
	}

	amount, err := decimal.NewFromString(params["total_amount"])
	if err != nil {
		return nil, exceptions.ErrGatewayParseCallback(fmt.Errorf("invalid total_amount: %s", params["total_amount"]), s.Name())
	}

	event := &contracts.PaymentEvent{
		Gateway:     s.Name(),
		OrderNo:     params["out_trade_no"],
		RefundNo:    params["out_request_no"],
		ExternalRef: params["trade_no"],
		Amount:      amount,
		OccurredAt:  time.Now(),
		Raw:         payload,
	}

	switch params["trade_status"] {
	case constvars.AlipayTradeSuccess, constvars.AlipayTradeFinished:
		event.Status = contracts.PaymentEventSuccess
	default:
		event.Status = contracts.PaymentEventFailed
		event.ErrorCode = params["trade_status"]
		event.ErrorMsg = params["sub_msg"]
	}

	if gmtPayment, err := time.Parse("2006-01-02 15:04:05", params["gmt_payment"]); err == nil {
		event.OccurredAt = gmtPayment
	}

	return event, nil
}

func (s *alipayService) SuccessAck() string {
	return "success"
}

func (s *alipayService) FailureAck() string {
	return "failure"
}

func (s *alipayService) sign(params map[string]string) (string, error) {
	if s.privateKey == nil {
		return "", fmt.Errorf("alipay private key is not configured")
	}

	digest := sha256.Sum256([]byte(buildSignSource(params)))
	signature, err := rsa.SignPKCS1v15(rand.Reader, s.privateKey, crypto.SHA256, digest[:])
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(signature), nil
}

func (s *alipayService) verify(params map[string]string, signature string) error {
	if s.publicKey == nil {
		return fmt.Errorf("alipay public key is not configured")
	}

	rawSignature, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("invalid callback signature encoding: %w", err)
	}

	digest := sha256.Sum256([]byte(buildSignSource(params)))
	return rsa.VerifyPKCS1v15(s.publicKey, crypto.SHA256, digest[:], rawSignature)
}

func buildSignSource(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		if params[key] == "" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params[key])
	}
	return strings.Join(pairs, "&")
}

func parsePrivateKey(encoded string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(encoded))
	if block == nil {
		return nil, fmt.Errorf("alipay private key is not valid PEM")
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("cannot parse alipay private key: %w", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("alipay private key is not RSA")
	}
	return key, nil
}

func parsePublicKey(encoded string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(encoded))
	if block == nil {
		return nil, fmt.Errorf("alipay public key is not valid PEM")
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("cannot parse alipay public key: %w", err)
	}
	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("alipay public key is not RSA")
	}
	return key, nil
}
