package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteProject creates a project tree under a temp dir. Keys are slash
// separated paths relative to the root.
func WriteProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// UsersProject is a generated project with one users resource.
func UsersProject() map[string]string {
	return map[string]string{
		"src/App/Routes.php":                UsersRoutes,
		"src/App/Services.php":              ServicesFile,
		"src/Controller/UserController.php": UserController,
		"src/Service/UserService.php":       UserService,
	}
}

const UsersRoutes = `<?php

declare(strict_types=1);

// --------------- Home Routes ---------------- //
$homeController = 'App\Controller\Home:';

$app->get('/', "{$homeController}api");
$app->get('/swagger', "{$homeController}swagger");
$app->get('/api', "{$homeController}getHelp");
$app->get('/status', "{$homeController}getStatus");

// --------------- User Routes ---------------- //
$app->group('/users', function ($app) {
  $user = 'App\Controller\UserController:';

  $app->get('', "{$user}getAll");
  $app->post('', "{$user}create");
  $app->get('/{id}', "{$user}getOne");
  $app->put('/{id}', "{$user}update");
  $app->delete('/{id}', "{$user}delete");
})->add($authMiddleware);

return $app;
`

const ServicesFile = `<?php

declare(strict_types=1);

use Pimple\Container;

$container['userService'] = static fn (Container $container): App\Service\UserService => new App\Service\UserService($container->get('db'));
`

const UserController = `<?php

declare(strict_types=1);

namespace App\Controller;

final class UserController
{
  public function getAll(Request $request, Response $response, array $args): Response
  {
    $params = $request->getQueryParams();
    $limit = $request->getQueryParams()['limit'] ?? 20;
    $result = $this->userService->getAll($params['search'] ?? null, $limit);
    return $response->withJson($result);
  }

  public function create(Request $request, Response $response, array $args): Response
  {
    $input = $request->getParsedBody();

    $dto = [
      'email' => $input['email'],
      'name' => $input['name'] ?: null,
      'born_at' => $input['born_at'] ? (new \DateTime($input['born_at']))->format('Y-m-d H:i:s') : null,
    ];

    $dto = array_filter($dto, fn($value) => $value !== null);
    $this->userService->create($dto);
    return $response->withStatus(201);
  }

  public function update(Request $request, Response $response, array $args): Response
  {
    $input = $request->getParsedBody();

    $dto = [
      'name' => $input['name'] ?: null,
    ];

    $this->userService->update((int) $args['id'], $dto);
    return $response->withStatus(204);
  }
}
`

const UserService = `<?php

declare(strict_types=1);

namespace App\Service;

final class UserService
{
  public function getAll(): array
  {
    $query = <<<SQL
      SELECT id, email, name
      FROM users
      ORDER BY id ASC
    SQL;

    return $this->conn->fetchAllAssociative($query);
  }

  public function getOne(int $id): array
  {
    $query = <<<SQL
      SELECT u.id, ` + "`email`" + `, u.name AS display_name
      FROM users u
      WHERE id = ?
    SQL;

    return $this->conn->fetchAssociative($query, [$id]);
  }

  public function delete(int $id): int|string
  {
    return $this->conn->delete('users', ['id' => $id]);
  }
}
`
