// Package moneyage implements the consumption and aging engine: FIFO
// allocation of expenses to resource pools, money age calculation, health
// classification, incremental recalculation and snapshot building.
package moneyage

import (
	"sync"

	"github.com/google/uuid"
)

// tenantLocks holds one mutex per tenant. All mutating operations for a
// tenant are serialized through it so two concurrent expense postings can
// never race on the same pool's remaining balance. Tenants are independent
// shards, there is no cross-tenant coordination.
var tenantLocks sync.Map

// lockTenant acquires the tenant's write lock and returns the function
// releasing it.
func lockTenant(tenantID uuid.UUID) func() {
	lock, _ := tenantLocks.LoadOrStore(tenantID, &sync.Mutex{})
	mutex := lock.(*sync.Mutex)
	mutex.Lock()
	return mutex.Unlock
}
