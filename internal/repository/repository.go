package repository

import (
	sq "github.com/Masterminds/squirrel"
)

const (
	usersTableName    = `users`
	itemsTableName    = `items`
	bookingsTableName = `bookings`
	requestsTableName = `requests`
	commentsTableName = `comments`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
