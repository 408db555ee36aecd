// Package zapi is a client for the Z-API WhatsApp messaging gateway.
package zapi
