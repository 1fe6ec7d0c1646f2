package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"elearning-payments/config"
	"elearning-payments/internal/core/ports"

	"github.com/rs/zerolog"
)

// VNPAY timestamps are expressed in the gateway's local zone regardless of
// where the server runs.
var vnpayZone = time.FixedZone("GMT+7", 7*60*60)

const vnpayTimeFormat = "20060102150405"

// VNPayCodec implements ports.GatewayCodec for the VNPAY gateway.
// URLs are signed with HMAC-SHA512 over the sorted, URL-encoded params.
type VNPayCodec struct {
	cfg config.VNPayConfig
	log zerolog.Logger
}

// NewVNPayCodec creates a new VNPayCodec.
func NewVNPayCodec(cfg config.VNPayConfig, log zerolog.Logger) *VNPayCodec {
	return &VNPayCodec{cfg: cfg, log: log}
}

// BuildPaymentURL returns the full gateway redirect URL for a checkout.
// The gateway carries amounts scaled by 100, so 10000 VND goes out as 1000000.
func (c *VNPayCodec) BuildPaymentURL(ctx context.Context, req ports.GatewayPaymentRequest) (string, error) {
	createdAt := req.CreatedAt.In(vnpayZone)

	params := map[string]string{
		"vnp_Version":    c.cfg.Version,
		"vnp_Command":    c.cfg.Command,
		"vnp_TmnCode":    c.cfg.TmnCode,
		"vnp_Amount":     fmt.Sprintf("%d", req.Amount*100),
		"vnp_CurrCode":   "VND",
		"vnp_TxnRef":     req.TxnRef,
		"vnp_OrderInfo":  req.OrderInfo,
		"vnp_OrderType":  "other",
		"vnp_Locale":     "vn",
		"vnp_ReturnUrl":  c.cfg.ReturnURL,
		"vnp_IpAddr":     req.ClientIP,
		"vnp_CreateDate": createdAt.Format(vnpayTimeFormat),
		"vnp_ExpireDate": createdAt.Add(15 * time.Minute).Format(vnpayTimeFormat),
	}

	query := canonicalQuery(params)
	signature := c.sign(query)

	return c.cfg.PayURL + "?" + query + "&vnp_SecureHash=" + signature, nil
}

// VerifyCallback checks the HMAC-SHA512 signature over the callback params.
// It returns the params with the signature fields removed and whether the
// signature is valid.
func (c *VNPayCodec) VerifyCallback(params map[string]string) (map[string]string, bool) {
	received, ok := params["vnp_SecureHash"]
	if !ok || received == "" {
		return nil, false
	}

	fields := make(map[string]string, len(params))
	for k, v := range params {
		if k == "vnp_SecureHash" || k == "vnp_SecureHashType" {
			continue
		}
		fields[k] = v
	}

	expected := c.sign(canonicalQuery(fields))
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(received))) {
		c.log.Warn().Str("txn_ref", fields["vnp_TxnRef"]).Msg("gateway callback signature mismatch")
		return nil, false
	}
	return fields, true
}

// sign computes the lowercase hex HMAC-SHA512 of the payload.
func (c *VNPayCodec) sign(payload string) string {
	mac := hmac.New(sha512.New, []byte(c.cfg.SecretKey))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// canonicalQuery builds the sorted, URL-encoded key=value string the
// signature covers. The same string doubles as the redirect query.
func canonicalQuery(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params[k]))
	}
	return b.String()
}
