// Package i18n holds the storefront's translated strings.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Supported lists the storefront languages, default first.
var Supported = []language.Tag{
	language.English,
	language.German,
	language.French,
}

var matcher = language.NewMatcher(Supported)

// translations maps message keys to their German and French forms.
var translations = map[string][2]string{
	"Quick View":         {"Schnellansicht", "Aperçu rapide"},
	"Quick View Trigger": {"Auslöser der Schnellansicht", "Déclencheur de l'aperçu rapide"},
	"Choose what event should trigger quick view": {"Wählen Sie, welches Ereignis die Schnellansicht öffnet", "Choisissez l'événement qui ouvre l'aperçu rapide"},
	"Quick View Button":                           {"Schnellansicht-Schaltfläche", "Bouton d'aperçu rapide"},
	"Any non-ajax add to cart button":             {"Jede In-den-Warenkorb-Schaltfläche ohne Ajax", "Tout bouton d'ajout au panier sans ajax"},
	"The following options are used to configure the Quick View extension.": {
		"Die folgenden Optionen konfigurieren die Schnellansicht-Erweiterung.",
		"Les options suivantes configurent l'extension d'aperçu rapide.",
	},
	"Support":          {"Hilfe", "Assistance"},
	"Docs":             {"Dokumentation", "Documentation"},
	"Add to cart":      {"In den Warenkorb", "Ajouter au panier"},
	"Select options":   {"Ausführung wählen", "Choisir les options"},
	"View products":    {"Produkte ansehen", "Voir les produits"},
	"Buy product":      {"Produkt kaufen", "Acheter le produit"},
	"Read more":        {"Weiterlesen", "Lire la suite"},
	"Choose an option": {"Wählen Sie eine Option", "Choisir une option"},
	"Sale!":            {"Angebot!", "Promo !"},
	"Shop":             {"Shop", "Boutique"},
	"Enable AJAX add to cart buttons on archives": {"AJAX-Warenkorb-Schaltflächen in Archiven aktivieren", "Activer les boutons AJAX d'ajout au panier sur les archives"},
	"View full details":                           {"Alle Produktdetails", "Voir le détail du produit"},
	"General options":                             {"Allgemeine Optionen", "Options générales"},
}

func init() {
	for key, tr := range translations {
		_ = message.SetString(language.German, key, tr[0])
		_ = message.SetString(language.French, key, tr[1])
	}
}

// Match picks the best supported language for an Accept-Language header.
func Match(acceptLanguage string) language.Tag {
	tag, _ := language.MatchStrings(matcher, acceptLanguage)
	base, _ := tag.Base()
	for _, s := range Supported {
		if b, _ := s.Base(); b == base {
			return s
		}
	}
	return language.English
}

// Printer returns a printer that translates into tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}
