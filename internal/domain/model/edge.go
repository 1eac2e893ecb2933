package model

// LikeEdge — лайк пользователя фильму. Пара уникальна.
type LikeEdge struct {
	FilmID int64
	UserID int64
}
