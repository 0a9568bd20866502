package domain

import (
	"math"
	"strconv"
	"strings"
	"time"

	shareddomain "onlineretail/internal/shared/domain"
)

// Valeurs de repli utilisées quand un champ du fichier est illisible.
// La ligne n'est jamais rejetée pour ces champs.
const (
	DefaultQuantity = 0
)

var (
	// DefaultUnitPrice remplace un prix illisible
	DefaultUnitPrice = shareddomain.ZeroMoney

	// DefaultInvoiceDate remplace une date illisible (epoch)
	DefaultInvoiceDate = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
)

// invoiceDateLayouts liste les formats acceptés, du plus courant au plus rare.
// L'export UCI utilise "12/1/2010 8:26" (mois/jour), le classeur xlsx "12/1/10 8:26".
var invoiceDateLayouts = []string{
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006",
	"1/2/06 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// ParseQuantity convertit une quantité; retourne (DefaultQuantity, false) si illisible.
// Une valeur décimale ("6.0") est tronquée.
func ParseQuantity(value string) (int, bool) {
	value = strings.TrimSpace(value)
	if n, err := strconv.Atoi(value); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return int(f), true
	}
	return DefaultQuantity, false
}

// ParseUnitPrice convertit un prix; retourne (DefaultUnitPrice, false) si illisible
func ParseUnitPrice(value string) (shareddomain.Money, bool) {
	price, err := shareddomain.ParseMoney(strings.TrimSpace(value))
	if err != nil {
		return DefaultUnitPrice, false
	}
	return price, true
}

// ParseInvoiceDate convertit une date (UTC); retourne (DefaultInvoiceDate, false) si illisible
func ParseInvoiceDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range invoiceDateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, true
		}
	}
	return DefaultInvoiceDate, false
}
