// Package meli is a client for the Mercado Livre recent-orders API.
//
// The client pages through /orders/search/recent with bearer-token
// authorization, sorted by descending creation date and bounded below by a
// date_from cutoff. Pagination is strictly sequential; each page's offset
// depends on completion of the previous page.
package meli
