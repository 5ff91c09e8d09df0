package snapshot

import "errors"

var (
	// ErrCacheMiss возвращается, когда снимка справочника нет в кэше
	ErrCacheMiss = errors.New("snapshot.cache: miss")

	// ErrCacheRead возвращается при ошибке чтения кэша
	ErrCacheRead = errors.New("snapshot.cache: failed to read")

	// ErrCacheCorrupted возвращается, когда сохраненный снимок не читается
	ErrCacheCorrupted = errors.New("snapshot.cache: corrupted snapshot")

	// ErrCacheWrite возвращается при ошибке записи в кэш
	ErrCacheWrite = errors.New("snapshot.cache: failed to write")
)
