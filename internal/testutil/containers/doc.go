// Package containers manages Docker containers for integration tests via
// testcontainers-go. SeoDeck's unit tests run on in-memory SQLite; the
// MySQL container exists to verify the behavior the engine's idempotency
// depends on, in particular the unique-index upsert, against the production
// database.
//
// Integration tests using this package carry the "integration" build tag
// and manage the container from TestMain:
//
//	var mysqlContainer *containers.MySQLContainer
//
//	func TestMain(m *testing.M) {
//	    var err error
//	    mysqlContainer, err = containers.NewMySQLContainer(context.Background(), nil)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    code := m.Run()
//	    _ = mysqlContainer.Terminate(context.Background())
//	    os.Exit(code)
//	}
//
// Run with:
//
//	go test -tags=integration ./...
package containers
