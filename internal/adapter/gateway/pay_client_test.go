package gateway

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"
)

func testKeyPEM(t *testing.T) (string, *rsa.PublicKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	pemBytes := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	return string(pemBytes), &key.PublicKey
}

// verifySignature rebuilds the signed string the way the provider does and
// checks the sign parameter against it.
func verifySignature(t *testing.T, pub *rsa.PublicKey, params url.Values) {
	t.Helper()
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "sign" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params.Get(k))
	}
	digest := sha256.Sum256([]byte(strings.Join(pairs, "&")))

	sig, err := base64.StdEncoding.DecodeString(params.Get("sign"))
	if err != nil {
		t.Fatalf("decode sign: %v", err)
	}
	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], sig); err != nil {
		t.Fatalf("signature does not verify: %v", err)
	}
}

func TestCreatePaymentIntent(t *testing.T) {
	pemKey, pub := testKeyPEM(t)
	c, err := NewPayClient("app-1", "https://gw.example.com/gateway.do", pemKey, time.Second)
	if err != nil {
		t.Fatalf("NewPayClient: %v", err)
	}

	locator, err := c.CreatePaymentIntent(context.Background(), "20260901u1", 123456, "freshcart order 20260901u1")
	if err != nil {
		t.Fatalf("CreatePaymentIntent: %v", err)
	}

	u, err := url.Parse(locator)
	if err != nil {
		t.Fatalf("parse locator: %v", err)
	}
	q := u.Query()
	if q.Get("app_id") != "app-1" || q.Get("method") != "trade.page.pay" {
		t.Fatalf("unexpected params: %v", q)
	}
	if q.Get("out_trade_no") != "20260901u1" {
		t.Fatalf("out_trade_no = %q", q.Get("out_trade_no"))
	}
	if q.Get("total_amount") != "1234.56" {
		t.Fatalf("total_amount = %q, want 1234.56", q.Get("total_amount"))
	}
	verifySignature(t, pub, q)
}

func TestQueryStatus(t *testing.T) {
	pemKey, pub := testKeyPEM(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("method") != "trade.query" || q.Get("out_trade_no") != "o1" {
			t.Errorf("unexpected query params: %v", q)
		}
		verifySignature(t, pub, q)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"10000","trade_status":"TRADE_SUCCESS","trade_no":"trade-42"}`))
	}))
	defer srv.Close()

	c, err := NewPayClient("app-1", srv.URL, pemKey, time.Second)
	if err != nil {
		t.Fatalf("NewPayClient: %v", err)
	}

	reply, err := c.QueryStatus(context.Background(), "o1")
	if err != nil {
		t.Fatalf("QueryStatus: %v", err)
	}
	if reply.Code != "10000" || reply.TradeStatus != "TRADE_SUCCESS" || reply.TradeID != "trade-42" {
		t.Fatalf("unexpected reply: %+v", reply)
	}
}

func TestQueryStatus_Non200(t *testing.T) {
	pemKey, _ := testKeyPEM(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream busy", http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := NewPayClient("app-1", srv.URL, pemKey, time.Second)
	if err != nil {
		t.Fatalf("NewPayClient: %v", err)
	}
	if _, err := c.QueryStatus(context.Background(), "o1"); err == nil {
		t.Fatal("expected an error for a non-200 reply")
	}
}

func TestNewPayClient_BadKey(t *testing.T) {
	if _, err := NewPayClient("app-1", "https://gw", "not a pem", time.Second); err == nil {
		t.Fatal("expected an error for a malformed key")
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{100, "1.00"},
		{123456, "1234.56"},
	}
	for _, c := range cases {
		if got := formatAmount(c.cents); got != c.want {
			t.Errorf("formatAmount(%d) = %q, want %q", c.cents, got, c.want)
		}
	}
}
