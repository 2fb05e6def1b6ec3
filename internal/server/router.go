package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mstannard/houseledger/internal/model"
)

// router builds the full API surface under /api/v1. Every entity gets the
// uniform CRUD routes; transactions and house things add their extra
// operations on top.
func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	r.Use(requestLogger)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	if s.authEnabled {
		api.Use(authMiddleware(s.authSecret))
	}

	// Transactions
	api.HandleFunc("/transactions", s.handleCreateTransaction).Methods(http.MethodPost)
	api.HandleFunc("/transactions", s.handleListTransactions).Methods(http.MethodGet)
	api.HandleFunc("/transactions/import/ofx", s.handleImportOFX).Methods(http.MethodPost)
	api.HandleFunc("/transactions/{id}", s.handleGetTransaction).Methods(http.MethodGet)
	api.HandleFunc("/transactions/{id}",
		handleDelete(s.store.SoftDeleteTransaction, s.store.HardDeleteTransaction)).Methods(http.MethodDelete)

	// Accounts and their satellites
	crudRoutes(api, "/accounts",
		s.store.CreateAccount, s.store.GetAccountByID, s.store.ListAccounts,
		s.store.UpdateAccount, s.store.SoftDeleteAccount, s.store.HardDeleteAccount,
		func(a *model.Account, id int64) { a.ID = id })

	api.HandleFunc("/balances", handleCreate(s.store.CreateBalance)).Methods(http.MethodPost)
	api.HandleFunc("/balances", s.handleListBalances).Methods(http.MethodGet)
	api.HandleFunc("/balances/{id}", handleGet(s.store.GetBalanceByID)).Methods(http.MethodGet)
	api.HandleFunc("/balances/{id}", handleUpdate(s.store.UpdateBalance,
		func(b *model.Balance, id int64) { b.ID = id })).Methods(http.MethodPut)
	api.HandleFunc("/balances/{id}",
		handleDelete(s.store.SoftDeleteBalance, s.store.HardDeleteBalance)).Methods(http.MethodDelete)

	crudRoutes(api, "/cards",
		s.store.CreateCard, s.store.GetCardByID, s.store.ListCards,
		s.store.UpdateCard, s.store.SoftDeleteCard, s.store.HardDeleteCard,
		func(c *model.Card, id int64) { c.ID = id })

	// Reference data
	crudRoutes(api, "/banks",
		s.store.CreateBank, s.store.GetBankByID, s.store.ListBanks,
		s.store.UpdateBank, s.store.SoftDeleteBank, s.store.HardDeleteBank,
		func(b *model.Bank, id int64) { b.ID = id })
	crudRoutes(api, "/countries",
		s.store.CreateCountry, s.store.GetCountryByID, s.store.ListCountries,
		s.store.UpdateCountry, s.store.SoftDeleteCountry, s.store.HardDeleteCountry,
		func(c *model.Country, id int64) { c.ID = id })
	crudRoutes(api, "/currencies",
		s.store.CreateCurrency, s.store.GetCurrencyByID, s.store.ListCurrencies,
		s.store.UpdateCurrency, s.store.SoftDeleteCurrency, s.store.HardDeleteCurrency,
		func(c *model.Currency, id int64) { c.ID = id })
	crudRoutes(api, "/conversion-rates",
		s.store.CreateConversionRate, s.store.GetConversionRateByID, s.store.ListConversionRates,
		s.store.UpdateConversionRate, s.store.SoftDeleteConversionRate, s.store.HardDeleteConversionRate,
		func(r *model.CurrencyConversionRate, id int64) { r.ID = id })

	// Household services
	crudRoutes(api, "/suppliers",
		s.store.CreateSupplier, s.store.GetSupplierByID, s.store.ListSuppliers,
		s.store.UpdateSupplier, s.store.SoftDeleteSupplier, s.store.HardDeleteSupplier,
		func(sup *model.Supplier, id int64) { sup.ID = id })
	crudRoutes(api, "/service-users",
		s.store.CreateServiceUser, s.store.GetServiceUserByID, s.store.ListServiceUsers,
		s.store.UpdateServiceUser, s.store.SoftDeleteServiceUser, s.store.HardDeleteServiceUser,
		func(u *model.ServiceUser, id int64) { u.ID = id })

	// House inventory
	crudRoutes(api, "/rooms",
		s.store.CreateRoom, s.store.GetRoomByID, s.store.ListRooms,
		s.store.UpdateRoom, s.store.SoftDeleteRoom, s.store.HardDeleteRoom,
		func(room *model.Room, id int64) { room.ID = id })
	crudRoutes(api, "/house-things",
		s.store.CreateHouseThing, s.store.GetHouseThingByID, s.store.ListHouseThings,
		s.store.UpdateHouseThing, s.store.SoftDeleteHouseThing, s.store.HardDeleteHouseThing,
		func(t *model.HouseThing, id int64) { t.ID = id })
	api.HandleFunc("/house-things/{id}/renew", s.handleRenewHouseThing).Methods(http.MethodPost)
	api.HandleFunc("/house-things/history/{historyId}", s.handleHouseThingHistory).Methods(http.MethodGet)

	// Salaries
	crudRoutes(api, "/salaries",
		s.store.CreateSalary, s.store.GetSalaryByID, s.store.ListSalaries,
		s.store.UpdateSalary, s.store.SoftDeleteSalary, s.store.HardDeleteSalary,
		func(sal *model.Salary, id int64) { sal.ID = id })

	return r
}
