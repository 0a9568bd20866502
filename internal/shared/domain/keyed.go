package domain

// Keyed est un conteneur indexé par clé naturelle qui conserve l'ordre de première insertion
// Utilisé pour dédupliquer les entités pendant un run d'ETL
type Keyed[K comparable, V any] struct {
	index map[K]V
	keys  []K
}

// NewKeyed crée un conteneur vide
func NewKeyed[K comparable, V any]() *Keyed[K, V] {
	return &Keyed[K, V]{
		index: make(map[K]V),
	}
}

// Get retourne la valeur associée à la clé
func (k *Keyed[K, V]) Get(key K) (V, bool) {
	v, ok := k.index[key]
	return v, ok
}

// PutIfAbsent insère la valeur seulement si la clé est inconnue
// Retourne true si la valeur a été insérée
func (k *Keyed[K, V]) PutIfAbsent(key K, value V) bool {
	if _, exists := k.index[key]; exists {
		return false
	}
	k.index[key] = value
	k.keys = append(k.keys, key)
	return true
}

// Len retourne le nombre d'entrées
func (k *Keyed[K, V]) Len() int {
	return len(k.keys)
}

// Values retourne les valeurs dans l'ordre de première insertion
func (k *Keyed[K, V]) Values() []V {
	values := make([]V, 0, len(k.keys))
	for _, key := range k.keys {
		values = append(values, k.index[key])
	}
	return values
}
