package mysql

// location is compared byte-for-byte; name/description keep the default
// case-insensitive collation so FULLTEXT matching ignores case.
const createHotelsSQL = `
CREATE TABLE IF NOT EXISTS hotels (
  id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
  name        VARCHAR(255)    NOT NULL,
  location    VARCHAR(255)    CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL,
  price       DOUBLE          NOT NULL,
  rooms       INT             NOT NULL,
  description TEXT            NULL,
  created_at  TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
`

const insertHotelSQL = `
INSERT INTO hotels
  (name, location, price, rooms, description)
VALUES
  (?, ?, ?, ?, ?)
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const selectHotelsSQL = "SELECT id, name, location, price, rooms, description FROM hotels WHERE "

const (
	whereLocation      = "location = ? ORDER BY id"
	whereLocationPrice = "location = ? AND price = ? ORDER BY id"
	// natural language mode orders by relevance
	whereText = "MATCH(name, description) AGAINST (? IN NATURAL LANGUAGE MODE)"
)

// -----------------------------------------------------------------------------
// INDEX METADATA
// -----------------------------------------------------------------------------

const countIndexSQL = `
SELECT COUNT(*)
FROM information_schema.statistics
WHERE table_schema = DATABASE() AND table_name = ? AND index_name = ?
`

const listIndexesSQL = `
SELECT index_name, index_type, GROUP_CONCAT(column_name ORDER BY seq_in_index)
FROM information_schema.statistics
WHERE table_schema = DATABASE() AND table_name = ?
GROUP BY index_name, index_type
ORDER BY index_name
`
