package driven

// URLCache caches short-lived URLs by key. Entries expire on their own.
type URLCache interface {
	Get(key string) (string, bool)
	Add(key, url string)
	Remove(key string)
	Purge()
}
