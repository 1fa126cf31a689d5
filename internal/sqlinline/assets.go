package sqlinline

const QInsertPosterAsset = `--sql 0579367e-be95-4176-95af-322d2dc4da91
insert into poster_assets(
  id,
  user_id,
  job_id,
  variant_index,
  recipe_id,
  name,
  storage_key,
  mime,
  bytes,
  width,
  height,
  output_format,
  language,
  model,
  created_at
) values (
  $1::uuid,
  $2::uuid,
  nullif($3::text, '')::uuid,
  $4::int,
  nullif($5::text, ''),
  $6::text,
  $7::text,
  $8::text,
  $9::bigint,
  $10::int,
  $11::int,
  $12::text,
  $13::text,
  $14::text,
  now()
) returning created_at;
`

const QListAssetsByUser = `--sql 6fe62992-02b6-41a4-8829-2b9f384182d0
select
  id,
  user_id,
  coalesce(job_id::text, ''),
  variant_index,
  coalesce(recipe_id, ''),
  name,
  storage_key,
  mime,
  bytes,
  width,
  height,
  output_format,
  language,
  model,
  created_at
from poster_assets
where user_id = $1::uuid
order by created_at desc
limit $2::int offset $3::int;
`

const QSelectJobAssets = `--sql 3cda8dcb-21a0-4924-a032-7cc30ea418c1
select
  id,
  user_id,
  coalesce(job_id::text, ''),
  variant_index,
  coalesce(recipe_id, ''),
  name,
  storage_key,
  mime,
  bytes,
  width,
  height,
  output_format,
  language,
  model,
  created_at
from poster_assets
where job_id = $1::uuid and user_id = $2::uuid
order by variant_index asc;
`

const QSelectAssetByID = `--sql 5e1a10af-829f-4e1d-9f62-9d725d543b48
select
  id,
  user_id,
  coalesce(job_id::text, ''),
  variant_index,
  coalesce(recipe_id, ''),
  name,
  storage_key,
  mime,
  bytes,
  width,
  height,
  output_format,
  language,
  model,
  created_at
from poster_assets
where id = $1::uuid
limit 1;
`
