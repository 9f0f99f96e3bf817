package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"course-academy/internal/checkout"
	log "github.com/sirupsen/logrus"
)

// checkout runs the cart through the purchase flow. The cart survives
// every failure so the visitor can fix the form and resubmit.
func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	var request CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	visitorCart := s.visitorCart(w, r)

	processor := checkout.NewProcessor(s.db)
	err := processor.Process(requestUserID(r), visitorCart, request.CardDetails)
	if err != nil {
		status, message := checkoutError(err)
		s.respondError(w, status, message)
		return
	}

	s.respondJSON(w, http.StatusCreated, MessageResponse{Message: "تمت عملية الدفع بنجاح"})
}

func checkoutError(err error) (int, string) {
	switch {
	case errors.Is(err, checkout.ErrInvalidPayment), errors.Is(err, checkout.ErrEmptyCart):
		return http.StatusBadRequest, "تفاصيل الدفع غير صالحة"
	case errors.Is(err, checkout.ErrDuplicatePurchase):
		return http.StatusConflict, "بعض الدورات تم شراؤها مسبقًا"
	case errors.Is(err, checkout.ErrInvalidCourse):
		return http.StatusBadRequest, "بعض الدورات غير موجودة"
	default:
		log.Errorf("processing checkout: %v", err)
		return http.StatusInternalServerError, "فشل في معالجة الدفع"
	}
}

// createPaymentLink serves the simplified email+amount payment path. It is
// independent of the cart flow and records no purchases.
func (s *Server) createPaymentLink(w http.ResponseWriter, r *http.Request) {
	var request PayRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if request.Email == "" || request.Amount <= 0 {
		s.respondError(w, http.StatusBadRequest, "يرجى إدخال بريد إلكتروني صحيح ومبلغ أكبر من 0")
		return
	}

	url, err := s.paylink.CreateLink(request.Email, request.Amount)
	if err != nil {
		log.Errorf("creating payment link: %v", err)
		s.respondError(w, http.StatusBadGateway, "حدث خطأ في إنشاء رابط الدفع")
		return
	}

	s.respondJSON(w, http.StatusOK, PayResponse{URL: url})
}
