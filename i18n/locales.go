package i18n

var builtin = map[string]map[string]string{
	"en": {
		"cart.title":            "Your Cart",
		"cart.empty":            "Your cart is empty",
		"cart.checkout":         "Checkout",
		"cart.subtotal":         "Subtotal:",
		"cart.continueShopping": "Continue shopping",

		"notifications.added":   "{{name}} added to cart",
		"notifications.removed": "Item removed from cart",
		"notifications.updated": "Cart updated",

		"checkout.processing": "Processing your order...",
		"checkout.success":    "Payment successful! Thank you for your purchase.",
		"checkout.error":      "An error occurred. Please try again.",
	},
	"fr": {
		"cart.title":            "Votre Panier",
		"cart.empty":            "Votre panier est vide",
		"cart.checkout":         "Passer à la caisse",
		"cart.subtotal":         "Sous-total:",
		"cart.continueShopping": "Continuer vos achats",

		"notifications.added":   "{{name}} ajouté au panier",
		"notifications.removed": "Article retiré du panier",
		"notifications.updated": "Panier mis à jour",

		"checkout.processing": "Traitement de votre commande...",
		"checkout.success":    "Paiement réussi! Merci pour votre achat.",
		"checkout.error":      "Une erreur est survenue. Veuillez réessayer.",
	},
}
