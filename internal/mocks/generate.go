package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/account --output domain/account --outpkg accountmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Ledger --dir ../domain/account --output domain/account --outpkg accountmock --filename ledger_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name SnapshotBus --dir ../domain/account --output domain/account --outpkg accountmock --filename snapshot_bus_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name HistoryRepository --dir ../domain/analysis --output domain/analysis --outpkg analysismock --filename history_repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/purchase --output domain/purchase --outpkg purchasemock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name MatchExtractor --dir ../usecase --output usecase --outpkg usecasemock --filename match_extractor_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name MatchDataGateway --dir ../usecase --output usecase --outpkg usecasemock --filename match_data_gateway_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name MatchAnalyzer --dir ../usecase --output usecase --outpkg usecasemock --filename match_analyzer_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name StoreVerifier --dir ../usecase --output usecase --outpkg usecasemock --filename store_verifier_mock.go
