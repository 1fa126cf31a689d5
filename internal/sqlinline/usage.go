package sqlinline

const QInsertGenerationUsage = `--sql 7c1f4d1e-2b6a-4f0e-9a53-0d8c6e4b91a2
insert into generation_usage(id, user_id, request_id, route, model, input_tokens, output_tokens, image_count, duration_ms, success, error, created_at)
values ($1::uuid, nullif($2, '')::uuid, $3::text, $4::text, $5::text, $6::int, $7::int, $8::int, $9::int, $10::boolean, nullif($11, ''), $12::timestamptz)
on conflict (id) do nothing;
`

const QSumGenerationUsageByUser = `--sql 2f8b0c55-6e1d-4d8b-b7a4-91e3c0f5a7d6
select route, model, count(*)::int, coalesce(sum(input_tokens), 0)::bigint, coalesce(sum(output_tokens), 0)::bigint, count(*) filter (where not success)::int
from generation_usage
where user_id = $1::uuid and created_at >= $2::timestamptz
group by route, model
order by route, model;
`
