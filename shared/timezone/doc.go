// Package timezone pins every wall-clock reading of the fair to one location.
//
// Reservation dates, expiration deadlines and monthly statistics are all
// computed in the location named by APP_TIMEZONE, loaded once at start-up.
// An unknown or empty name falls back to UTC.
package timezone
